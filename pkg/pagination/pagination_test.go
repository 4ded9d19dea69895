package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 20, Offset: 0}, New(0, 0))
	assert.Equal(t, Params{Page: 3, Limit: 10, Offset: 20}, New(3, 10))
	assert.Equal(t, Params{Page: 1, Limit: MaxLimit, Offset: 0}, New(1, 1000))
}

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=2&limit=5", nil)

	assert.Equal(t, Params{Page: 2, Limit: 5, Offset: 5}, Parse(c))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 45, New(1, 20))
	assert.Equal(t, 3, p.NumPages)
	assert.Equal(t, int64(45), p.Total)

	empty := NewPage[string](nil, 0, New(1, 20))
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 1, empty.NumPages)
}
