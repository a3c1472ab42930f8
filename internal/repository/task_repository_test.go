package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskflow-api/internal/models"
	"github.com/yukikurage/taskflow-api/internal/testutil"
	"gorm.io/gorm"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	repo  TaskRepository
	ctx   context.Context
	alice *models.User
	bob   *models.User
}

func (s *TaskRepositoryTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.repo = NewTaskRepository(s.db)
	s.ctx = context.Background()
	s.alice = testutil.CreateUser(s.T(), s.db, "alice", "alice@example.com", false)
	s.bob = testutil.CreateUser(s.T(), s.db, "bob", "bob@example.com", false)
}

func (s *TaskRepositoryTestSuite) TestList_ParticipantFilterAndOrder() {
	testutil.CreateTask(s.T(), s.db, "late", s.alice, nil, testutil.Day(20))
	testutil.CreateTask(s.T(), s.db, "assigned", s.bob, s.alice, testutil.Day(5))
	testutil.CreateTask(s.T(), s.db, "foreign", s.bob, nil, testutil.Day(1))

	tasks, total, err := s.repo.List(s.ctx, TaskFilter{
		ParticipantID: &s.alice.ID,
		SortByDueDate: true,
		Page:          1,
		PageSize:      10,
	})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(tasks, 2)
	s.Equal("assigned", tasks[0].Title)
	s.Equal("late", tasks[1].Title)
	s.Require().NotNil(tasks[0].AssignedUser)
	s.Equal("alice@example.com", tasks[0].AssignedUser.Email)
	s.Equal("bob", tasks[0].CreatedBy.Username)
}

func (s *TaskRepositoryTestSuite) TestList_EqualityFiltersCombineWithParticipant() {
	done := testutil.CreateTask(s.T(), s.db, "done", s.alice, s.bob, testutil.Day(2))
	done.Status = models.TaskStatusCompleted
	s.Require().NoError(s.repo.Update(s.ctx, done))
	testutil.CreateTask(s.T(), s.db, "open", s.alice, s.bob, testutil.Day(3))
	testutil.CreateTask(s.T(), s.db, "other", s.bob, s.bob, testutil.Day(3))

	status := models.TaskStatusCompleted
	tasks, total, err := s.repo.List(s.ctx, TaskFilter{
		ParticipantID:  &s.alice.ID,
		AssignedUserID: &s.bob.ID,
		Status:         &status,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(tasks, 1)
	s.Equal(done.ID, tasks[0].ID)
}

func (s *TaskRepositoryTestSuite) TestList_PaginationCountsBeforePaging() {
	for i := 1; i <= 25; i++ {
		testutil.CreateTask(s.T(), s.db, "task", s.alice, nil, testutil.Day(i))
	}

	tasks, total, err := s.repo.List(s.ctx, TaskFilter{
		CreatorID:     &s.alice.ID,
		SortByDueDate: true,
		Page:          3,
		PageSize:      10,
	})
	s.Require().NoError(err)
	s.Equal(int64(25), total)
	s.Len(tasks, 5)
	s.Equal(testutil.Day(21), tasks[0].DueDate.UTC())
}

func (s *TaskRepositoryTestSuite) TestFindByIDs() {
	a := testutil.CreateTask(s.T(), s.db, "a", s.alice, s.bob, testutil.Day(1))
	testutil.CreateTask(s.T(), s.db, "b", s.alice, nil, testutil.Day(2))
	c := testutil.CreateTask(s.T(), s.db, "c", s.bob, nil, testutil.Day(3))

	tasks, err := s.repo.FindByIDs(s.ctx, []string{c.ID, a.ID, "missing"})
	s.Require().NoError(err)
	s.Len(tasks, 2)

	all, err := s.repo.FindByIDs(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 3)

	none, err := s.repo.FindByIDs(s.ctx, []string{"missing"})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *TaskRepositoryTestSuite) TestUpdateAndDelete() {
	task := testutil.CreateTask(s.T(), s.db, "draft", s.alice, nil, testutil.Day(1))

	loaded, err := s.repo.FindByID(s.ctx, task.ID, PreloadCreatedBy)
	s.Require().NoError(err)
	loaded.Title = "final"
	loaded.AssignedUserID = &s.bob.ID
	s.Require().NoError(s.repo.Update(s.ctx, loaded))

	reloaded, err := s.repo.FindByID(s.ctx, task.ID, PreloadAssignedUser)
	s.Require().NoError(err)
	s.Equal("final", reloaded.Title)
	s.Require().NotNil(reloaded.AssignedUser)
	s.Equal(s.bob.ID, reloaded.AssignedUser.ID)

	s.Require().NoError(s.repo.Delete(s.ctx, task.ID))
	_, err = s.repo.FindByID(s.ctx, task.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
	s.ErrorIs(s.repo.Delete(s.ctx, task.ID), gorm.ErrRecordNotFound)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func TestTaskRepository_CreateIgnoresRelations(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	owner := testutil.CreateUser(t, db, "owner", "owner@example.com", false)

	task := &models.Task{
		Title:       "t",
		DueDate:     testutil.Day(1),
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityLow,
		CreatedByID: owner.ID,
		CreatedBy:   models.User{Username: "injected", Email: "injected@example.com"},
	}
	require.NoError(t, repo.Create(context.Background(), task))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
