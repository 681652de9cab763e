package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/tourist_safety_system/internal/service"
	"github.com/shenikar/tourist_safety_system/internal/triage"
	"github.com/sirupsen/logrus"
)

// respondError переводит ошибку сервиса в HTTP-статус и тело {error}
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	status, message := http.StatusInternalServerError, "internal server error"

	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, triage.ErrUnknownUnit):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUserExists):
		status, message = http.StatusBadRequest, "username already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusBadRequest, "invalid credentials"
	case errors.Is(err, service.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrConflict), errors.Is(err, triage.ErrInvalidTransition):
		status, message = http.StatusConflict, err.Error()
	}

	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Warn("Request rejected")
	}
	c.JSON(status, gin.H{"error": message})
}
