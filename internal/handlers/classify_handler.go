package handlers

import (
	"net/http"
	"pest_marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type ClassifyHandler struct {
	classificationService services.ClassificationService
}

func NewClassifyHandler(classificationService services.ClassificationService) *ClassifyHandler {
	return &ClassifyHandler{classificationService: classificationService}
}

// Classify relays an uploaded pest image to the classification backend and
// returns the prediction with its confidence breakdown.
func (h *ClassifyHandler) Classify(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}

	prediction, err := h.classificationService.ClassifyImage(file)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Classification service unavailable"})
		return
	}

	c.JSON(http.StatusOK, prediction)
}
