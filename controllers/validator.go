package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"catalog-service/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validation constants
const (
	MaxPageSize   = 100
	MaxPageNumber = 1000000
	MaxUploadSize = 50 * 1024 * 1024 // 50MB
	MaxBatchFiles = 20
)

// allowedUploadExtensions are the upload formats the ingestion pipeline
// accepts.
var allowedUploadExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".xls":  true,
	".xlsx": true,
	".pdf":  true,
}

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParsePagination validates and parses pagination parameters
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	pageStr := c.DefaultQuery("page", "1")
	perPageStr := c.DefaultQuery("perPage", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, 0, errors.New("invalid page number")
	}
	if page > MaxPageNumber {
		page = MaxPageNumber
	}

	perPage, err := strconv.Atoi(perPageStr)
	if err != nil || perPage < 1 {
		return 0, 0, errors.New("invalid page size")
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	return page, perPage, nil
}

// ParseListParams validates and parses filter parameters for product listing.
func (rv *RequestValidator) ParseListParams(c *gin.Context) (repository.ListParams, error) {
	page, perPage, err := rv.ParsePagination(c)
	if err != nil {
		return repository.ListParams{}, err
	}

	params := repository.ListParams{
		Page:       page,
		PerPage:    perPage,
		Category:   strings.TrimSpace(c.Query("category")),
		SourceFile: strings.TrimSpace(c.Query("sourceFile")),
		Query:      strings.TrimSpace(c.Query("q")),
	}

	if minStr := strings.TrimSpace(c.Query("minPrice")); minStr != "" {
		parsed, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return repository.ListParams{}, errors.New("invalid minPrice value")
		}
		params.MinPrice = &parsed
	}
	if maxStr := strings.TrimSpace(c.Query("maxPrice")); maxStr != "" {
		parsed, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return repository.ListParams{}, errors.New("invalid maxPrice value")
		}
		params.MaxPrice = &parsed
	}
	if params.MinPrice != nil && params.MaxPrice != nil && *params.MinPrice > *params.MaxPrice {
		return repository.ListParams{}, errors.New("minPrice must be less than or equal to maxPrice")
	}

	return params, nil
}

// IsValidUploadFile checks if the file has a supported upload format.
func (rv *RequestValidator) IsValidUploadFile(file *multipart.FileHeader) bool {
	contentType := file.Header.Get("Content-Type")
	switch contentType {
	case "text/csv", "application/csv", "text/plain", "application/pdf",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return true
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	return allowedUploadExtensions[ext]
}

// ValidateFileSize checks if file size is within limits
func (rv *RequestValidator) ValidateFileSize(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file too large (max %dMB)", MaxUploadSize/(1024*1024))
	}
	return nil
}
