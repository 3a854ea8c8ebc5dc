package routes

import (
	"catalog-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all catalog service routes
func RegisterRoutes(r *gin.Engine, catalog *controllers.CatalogController, imports *controllers.ImportHandler) {
	products := r.Group("/products")
	{
		products.GET("", catalog.GetProducts)
		products.GET("/:id", catalog.GetProductByID)
		products.POST("", catalog.CreateProduct)
		products.DELETE("/:id", catalog.DeleteProduct)
	}

	catalogGroup := r.Group("/catalog")
	{
		catalogGroup.GET("/files", catalog.GetSourceFiles)

		catalogGroup.POST("/imports", imports.CreateImport)
		catalogGroup.POST("/imports/validate", imports.ValidateImport)
		catalogGroup.GET("/imports/:id", imports.GetImportJobStatus)
	}
}
