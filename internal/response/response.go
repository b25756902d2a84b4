package response

import (
	"time"

	"github.com/labstack/echo/v4"
)

// Meta carries envelope metadata; the timestamp is always stamped on write.
type Meta map[string]interface{}

// Body is the uniform wrapper every endpoint responds with.
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  interface{} `json:"errors"`
	Meta    Meta        `json:"meta"`
}

func stamp(meta Meta) Meta {
	if meta == nil {
		meta = Meta{}
	}
	meta["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return meta
}

// Success writes a success envelope.
func Success(c echo.Context, statusCode int, message string, data interface{}, meta Meta) error {
	return c.JSON(statusCode, Body{
		Success: true,
		Message: message,
		Data:    data,
		Errors:  nil,
		Meta:    stamp(meta),
	})
}

// Error writes an error envelope.
func Error(c echo.Context, statusCode int, message string, errs interface{}) error {
	return c.JSON(statusCode, Body{
		Success: false,
		Message: message,
		Data:    nil,
		Errors:  errs,
		Meta:    stamp(nil),
	})
}

// Pagination builds list metadata.
func Pagination(count int64, page, pageSize int) Meta {
	return Meta{
		"count":     count,
		"page":      page,
		"page_size": pageSize,
	}
}
