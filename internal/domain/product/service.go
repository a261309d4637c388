// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=50"`
	Category string `form:"category"` // category slug, "all" or empty for everything
	Search   string `form:"search"`
	InStock  *bool  `form:"in_stock"`
}

// ProductCreateRequest represents product creation data. Price is the
// decorated string the admin form sends, e.g. "$35.00".
type ProductCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Image       string `json:"image"`
	Category    string `json:"category" binding:"required"`
	InStock     *bool  `json:"in_stock"`
	SortOrder   int    `json:"sort_order"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	InStock     *bool   `json:"in_stock"`
	SortOrder   *int    `json:"sort_order"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination computes page metadata
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(ctx context.Context, req *ProductListRequest) (*ProductResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 50
	}

	var products []Product
	var total int64

	query := s.db.WithContext(ctx).Model(&Product{}).Preload("Category")

	if req.Category != "" && req.Category != "all" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", req.Category)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", search, search)
	}

	if req.InStock != nil {
		query = query.Where("products.in_stock = ?", *req.InStock)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	err := query.Order("products.sort_order ASC, products.id ASC").
		Offset(offset).Limit(req.Limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ProductResponse{
		Products:   products,
		Pagination: NewPagination(req.Page, req.Limit, total),
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	return &product, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(ctx context.Context, req *ProductCreateRequest) (*Product, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	category, err := s.GetCategoryBySlug(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := Product{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Price:       price,
		Image:       req.Image,
		CategoryID:  category.ID,
		InStock:     inStock,
		SortOrder:   req.SortOrder,
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.Category = *category

	return &product, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(ctx context.Context, id uint, req *ProductUpdateRequest) (*Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		slug, err := s.uniqueSlug(ctx, *req.Name, id)
		if err != nil {
			return nil, err
		}
		updates["name"] = strings.TrimSpace(*req.Name)
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		updates["price"] = price
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Category != nil {
		category, err := s.GetCategoryBySlug(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = category.ID
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct soft deletes a product. Orders keep their item snapshots.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func parsePrice(raw string) (money.Amount, error) {
	price, err := money.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: must not be negative", ErrInvalidPrice)
	}
	return price, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify generates a URL-friendly slug from a name
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug appends a counter when another product already owns the slug
func (s *Service) uniqueSlug(ctx context.Context, name string, selfID uint) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "product"
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		err := s.db.WithContext(ctx).Unscoped().Model(&Product{}).
			Where("slug = ? AND id <> ?", slug, selfID).Count(&count).Error
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
