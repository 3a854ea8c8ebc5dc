package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"catalog-service/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CatalogController serves catalog browse/search and the thin UI-driven
// mutation path; ingestion goes through ImportHandler.
type CatalogController struct {
	service   CatalogServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewCatalogController(svc CatalogServiceAPI, rdb *redis.Client) *CatalogController {
	return &CatalogController{
		service:   svc,
		cache:     NewCacheManager(rdb),
		validator: NewRequestValidator(),
	}
}

// GetProducts retrieves paginated, filtered catalog products.
func (ctrl *CatalogController) GetProducts(c *gin.Context) {
	params, err := ctrl.validator.ParseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	if cached, ok := ctrl.cache.GetProductList(ctx, params); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := ctrl.service.ListProducts(ctx, params)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	response := buildProductListResponse(products, total, params.Page, params.PerPage)
	ctrl.cache.SetProductListAsync(params, response)

	c.JSON(http.StatusOK, response)
}

// GetProductByID retrieves a single catalog product.
func (ctrl *CatalogController) GetProductByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	product, err := ctrl.service.GetProduct(ctx, id)
	if err != nil {
		handleServiceError(c, err, "Product not found")
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a single product through the manual entry path.
func (ctrl *CatalogController) CreateProduct(c *gin.Context) {
	var req ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := ctrl.validator.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	product := req.toProduct()
	if err := ctrl.service.AddProduct(ctx, product); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		zap.L().Error("failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	ctrl.cache.InvalidateProduct(ctx, product.ProductID)
	c.JSON(http.StatusCreated, product)
}

// DeleteProduct removes a product from the catalog.
func (ctrl *CatalogController) DeleteProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	if err := ctrl.service.DeleteProduct(ctx, id); err != nil {
		handleServiceError(c, err, "Product not found")
		return
	}

	ctrl.cache.InvalidateProduct(ctx, id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// GetSourceFiles lists the uploads that produced catalog entries.
func (ctrl *CatalogController) GetSourceFiles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	files, err := ctrl.service.SourceFiles(ctx)
	if err != nil {
		zap.L().Error("failed to list source files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}
	if files == nil {
		files = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// ProductCreateRequest is the manual product entry payload.
type ProductCreateRequest struct {
	ProductID   string  `json:"productId" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	CompanyName string  `json:"companyName" validate:"required"`
	ShopName    string  `json:"shopName" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Category    string  `json:"category"`
	GST         float64 `json:"gst" validate:"gte=0"`
	Description string  `json:"description"`
}

func (r ProductCreateRequest) toProduct() models.Product {
	return models.Product{
		ProductID:   r.ProductID,
		Name:        r.Name,
		CompanyName: r.CompanyName,
		ShopName:    r.ShopName,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Category:    r.Category,
		GST:         r.GST,
		Description: r.Description,
		SourceFile:  "manual",
		CreatedAt:   time.Now().UTC(),
	}
}
