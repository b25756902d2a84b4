package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSuccessEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Success(c, http.StatusOK, "done", echo.Map{"id": 1}, Pagination(42, 2, 12))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body Body
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "done", body.Message)
	assert.Nil(t, body.Errors)
	assert.Equal(t, float64(42), body.Meta["count"])
	assert.Equal(t, float64(2), body.Meta["page"])
	assert.Equal(t, float64(12), body.Meta["page_size"])
	assert.NotEmpty(t, body.Meta["timestamp"])
}

func TestErrorEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Error(c, http.StatusNotFound, "product not found", echo.Map{"code": "PRODUCT_NOT_FOUND"})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body Body
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Nil(t, body.Data)
	assert.NotEmpty(t, body.Meta["timestamp"])
}
