package utils

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		page, limit int
		want        PaginationParams
	}{
		{1, 10, PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{3, 10, PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{0, 0, PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{2, 500, PaginationParams{Page: 2, Limit: 100, Offset: 100}},
		{1, -3, PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{-4, 25, PaginationParams{Page: 1, Limit: 25, Offset: 0}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPaginationParams(tt.page, tt.limit))
	}
}

func TestNewPaginationParams_HugePageDoesNotOverflow(t *testing.T) {
	for _, limit := range []int{1, 5, 10, 100} {
		params := NewPaginationParams(math.MaxInt/5, limit)

		assert.Positive(t, params.Offset, "limit %d", limit)
		assert.Equal(t, (params.Page-1)*params.Limit, params.Offset)
		assert.GreaterOrEqual(t, params.Offset, math.MaxInt/5/100)
	}

	params := NewPaginationParams(math.MaxInt, 1)
	assert.Equal(t, math.MaxInt, params.Page)
	assert.Equal(t, math.MaxInt-1, params.Offset)

	params = NewPaginationParams(math.MaxInt, 10)
	assert.Equal(t, math.MaxInt/10, params.Page)
	assert.Equal(t, (math.MaxInt/10-1)*10, params.Offset)
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tasks?page=2&limit=5", nil)

	assert.Equal(t, PaginationParams{Page: 2, Limit: 5, Offset: 5}, GetPaginationParams(c))

	c.Request = httptest.NewRequest("GET", "/api/tasks?page=abc", nil)
	assert.Equal(t, PaginationParams{Page: 1, Limit: 10, Offset: 0}, GetPaginationParams(c))

	c.Request = httptest.NewRequest("GET", "/api/tasks?page=1844674407370955161&limit=10", nil)
	params := GetPaginationParams(c)
	assert.Positive(t, params.Offset)
	assert.Equal(t, (params.Page-1)*params.Limit, params.Offset)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 2, TotalPages(20, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
