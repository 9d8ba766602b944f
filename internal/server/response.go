package server

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ironsheep/color-legend-util/internal/imaging"
	"github.com/ironsheep/color-legend-util/internal/store"
)

// errBadRequest marks malformed request input.
var errBadRequest = errors.New("bad request")

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, imaging.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, imaging.ErrCorruptData), errors.Is(err, imaging.ErrEmptyRegion):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError records err on the context and aborts with its status.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Code: status, Message: err.Error()})
}
