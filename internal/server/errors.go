package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"goldmart/internal/api"
	"goldmart/internal/domain"
	"goldmart/internal/logger/sl"
)

const genericMessage = "Something went wrong."

// classify maps an error onto a status and envelope code.
func classify(err error) (int, string) {
	var (
		verr domain.ErrValidation
		nf   domain.ErrNotFound
		cf   domain.ErrConflict
		fb   domain.ErrForbidden
		ae   *api.Error
		ue   *url.Error
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "BadRequest"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.As(err, &fb):
		return http.StatusForbidden, "Forbidden"
	case errors.As(err, &nf):
		return http.StatusNotFound, "NotFound"
	case errors.As(err, &cf):
		return http.StatusConflict, "Conflict"
	case errors.As(err, &ae):
		switch ae.Status {
		case http.StatusForbidden:
			return ae.Status, "Forbidden"
		case http.StatusNotFound:
			return ae.Status, "NotFound"
		case http.StatusConflict:
			return ae.Status, "Conflict"
		}
		if ae.Status >= 400 && ae.Status < 500 {
			return http.StatusBadRequest, "BadRequest"
		}
		return http.StatusBadGateway, "BackendError"
	case errors.As(err, &ue):
		return http.StatusBadGateway, "BackendError"
	}
	return http.StatusInternalServerError, "Internal"
}

func messageOf(err error) string {
	var (
		nf domain.ErrNotFound
		fb domain.ErrForbidden
	)
	switch {
	case errors.As(err, &nf), errors.As(err, &fb):
		return err.Error()
	case errors.Is(err, domain.ErrUnauthorized) && api.StatusOf(err) == 0:
		return "Please log in again."
	}
	return api.MessageOf(err, genericMessage)
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			"path", c.FullPath(),
			sl.Err(err),
			sl.Traced(c.Request.Context()))
	}
	s.abort(c, status, code, messageOf(err))
}

// abort writes the error envelope.
func (s *Server) abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   msg,
			"requestId": c.GetString(ctxRequestID),
		},
	})
}

// bind decodes the JSON body, answering 400 itself on failure.
func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		s.abort(c, http.StatusBadRequest, "BadRequest", "invalid json")
		return false
	}
	return true
}
