package controllers

import (
	"errors"
	"strings"

	"catalog-service/models"
	"catalog-service/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError maps common service errors to HTTP responses.
func handleServiceError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, repository.ErrNotFound) || strings.Contains(err.Error(), "not found") {
		c.JSON(404, gin.H{"error": notFoundMsg})
		return
	}
	zap.L().Error("Service error", zap.Error(err))
	c.JSON(500, gin.H{"error": "Internal server error"})
}

// buildProductListResponse builds a simple paginated response map
func buildProductListResponse(products []models.Product, total int64, page, perPage int) map[string]interface{} {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return map[string]interface{}{
		"products": products,
		"meta": map[string]interface{}{
			"page":       page,
			"perPage":    perPage,
			"total":      total,
			"totalPages": totalPages,
		},
	}
}
