package handlers

import (
	"model-serving-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	predictionSvc *services.PredictionService
}

func New(predictionSvc *services.PredictionService) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Inference
	r.POST("/predict", h.Predict)

	// Health
	r.GET("/healthz", h.Health)
}
