package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/model"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error translates a service error to the client status code. Anything
// outside the known taxonomy is a server fault and its detail stays out of
// the response.
func Error(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		c.JSON(status, NewErrorResponse(appErr.Message))
		return
	}

	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
}

// BindOptionalJSON binds the request body into dst when one is present. A
// missing or empty body leaves dst zero-valued instead of failing, for
// endpoints whose payload fields are all optional.
func BindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
		return false
	}
	return true
}

// ParseID reads an integer path parameter, responding 400 on garbage.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid "+name))
		return 0, false
	}
	return id, true
}

// ParseDate reads a YYYY-MM-DD path parameter, responding 400 on garbage.
func ParseDate(c *gin.Context, name string) (time.Time, bool) {
	date, err := time.Parse(model.DateOnly, c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid "+name+" format, expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return date, true
}
