package handlers

import (
	"errors"
	"net/http"

	"model-serving-service/internal/adapters/primary/http/middleware"
	"model-serving-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// mapDomainError answers every prediction failure with a generic 500. Failures
// caused by the request's shape are logged as warnings, the rest as errors.
func mapDomainError(c *gin.Context, err error) {
	entry := log.WithError(err).WithField("request_id", middleware.GetRequestID(c))

	switch {
	case errors.Is(err, domain.ErrEmptyTable),
		errors.Is(err, domain.ErrColumnLengthMismatch),
		errors.Is(err, domain.ErrMissingFeature),
		errors.Is(err, domain.ErrUnexpectedFeature),
		errors.Is(err, domain.ErrInvalidFeatureValue),
		errors.Is(err, domain.ErrFeatureCountMismatch):
		entry.Warn("prediction rejected by model")

	default:
		entry.Error("prediction failed")
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
