package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MullerEsposito/starkoverflow-engine/internal/service"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/pagination"
)

// respondError maps service sentinels to HTTP status codes so every
// failure kind stays distinguishable on the wire.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, pagination.ErrInvalidPageSize),
		errors.Is(err, pagination.ErrInvalidPage):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrForumDeleted):
		status = http.StatusGone
	case errors.Is(err, service.ErrAnswerMismatch):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrQuestionClosed),
		errors.Is(err, service.ErrAlreadyResolved),
		errors.Is(err, service.ErrDuplicateResolution):
		status = http.StatusConflict
	case errors.Is(err, service.ErrTransferFailed):
		status = http.StatusPaymentRequired
	}

	if status == http.StatusInternalServerError {
		c.Error(err)
		c.JSON(status, gin.H{"err": "internal error"})
		return
	}
	c.JSON(status, gin.H{"err": err.Error()})
}
