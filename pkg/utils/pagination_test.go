package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) PaginationParams {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users?"+query, nil)
	rec := httptest.NewRecorder()
	return GetPaginationParams(e.NewContext(req, rec))
}

func TestGetPaginationParams(t *testing.T) {
	params := paramsFor(t, "page=3&limit=10")
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 10, params.PageSize)
	assert.Equal(t, 20, params.Offset)

	// Defaults for missing or junk values.
	params = paramsFor(t, "")
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)

	params = paramsFor(t, "page=-1&limit=9999")
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
}

func TestBounds(t *testing.T) {
	params := PaginationParams{Page: 1, PageSize: 10, Offset: 0}
	start, end := params.Bounds(25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	params = PaginationParams{Page: 3, PageSize: 10, Offset: 20}
	start, end = params.Bounds(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	// Past the end of the list the window collapses to empty.
	params = PaginationParams{Page: 5, PageSize: 10, Offset: 40}
	start, end = params.Bounds(25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)

	start, end = params.Bounds(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
