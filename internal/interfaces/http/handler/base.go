package handler

import (
	"errors"
	"net/http"

	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/ecomm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func (h *BaseHandler) getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a successful response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response, deriving the HTTP status from the error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	normalized := dto.NormalizeErrorCode(code)
	c.JSON(dto.GetHTTPStatus(normalized), dto.NewErrorResponseWithRequestID(normalized, message, h.getRequestID(c)))
}

// ErrorWithStatus sends an error response with an explicit HTTP status
func (h *BaseHandler) ErrorWithStatus(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, h.getRequestID(c)))
}

// BadRequest sends a 400 error response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithStatus(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 error response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.ErrorWithStatus(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.ErrorWithStatus(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps any error to an API response. Domain errors carry their
// own code; everything else is reported as an internal error without
// leaking the underlying message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}
	h.InternalError(c, "An internal error occurred")
}
