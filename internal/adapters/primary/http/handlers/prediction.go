package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-serving-service/internal/adapters/primary/http/dto"
	"model-serving-service/internal/adapters/primary/http/middleware"
)

func (h *Handler) Predict(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Warn("read predict request failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}

	req, err := dto.ParsePredictRequest(body)
	if errors.Is(err, dto.ErrMalformedBody) {
		log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Warn("decode predict request failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + dto.ErrMalformedBody.Error()})
		return
	}
	if err != nil {
		mapDomainError(c, err)
		return
	}

	preds, err := h.predictionSvc.Predict(c.Request.Context(), req)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PredictResponse{Predictions: preds})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToHealthResponse(h.predictionSvc.Model()))
}
