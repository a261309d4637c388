// internal/domain/product/category_service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GetCategories retrieves the active categories in display order
func (s *Service) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug retrieves a category by slug
func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, slug)
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}
	return &category, nil
}

// DefaultCategories are the store sections seeded on first start
func DefaultCategories() []Category {
	return []Category{
		{Name: "Cakes", Slug: "cakes", SortOrder: 1, IsActive: true},
		{Name: "Cupcakes", Slug: "cupcakes", SortOrder: 2, IsActive: true},
		{Name: "Cookies", Slug: "cookies", SortOrder: 3, IsActive: true},
		{Name: "Pastries", Slug: "pastries", SortOrder: 4, IsActive: true},
	}
}

// DefaultProducts are the launch menu, keyed by category slug
func DefaultProducts() map[string][]ProductCreateRequest {
	return map[string][]ProductCreateRequest{
		"cakes": {
			{Name: "Classic Chocolate Cake", Price: "$35.00", Image: "/placeholder.svg", SortOrder: 1},
			{Name: "Strawberry Cheesecake", Price: "$32.00", Image: "/placeholder.svg", SortOrder: 4},
			{Name: "Birthday Cake", Price: "$42.00", Image: "/placeholder.svg", SortOrder: 7},
		},
		"cupcakes": {
			{Name: "Red Velvet Cupcakes (Box of 6)", Price: "$18.00", Image: "/placeholder.svg", SortOrder: 2},
			{Name: "Vanilla Bean Cupcakes (Box of 6)", Price: "$18.00", Image: "/placeholder.svg", SortOrder: 5},
		},
		"cookies": {
			{Name: "Chocolate Chip Cookies (Dozen)", Price: "$12.00", Image: "/placeholder.svg", SortOrder: 3},
			{Name: "Macaron Collection (Box of 12)", Price: "$24.00", Image: "/placeholder.svg", SortOrder: 8},
		},
		"pastries": {
			{Name: "Almond Croissants (2 pack)", Price: "$8.50", Image: "/placeholder.svg", SortOrder: 6},
			{Name: "Pain au Chocolat (2 pack)", Price: "$7.50", Image: "/placeholder.svg", SortOrder: 9},
		},
	}
}
