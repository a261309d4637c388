// internal/domain/gallery/service.go
package gallery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// Service manages gallery items
type Service struct {
	db *gorm.DB
}

// NewService creates a new gallery service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ItemRequest is the admin form for creating or replacing an item
type ItemRequest struct {
	Name       string    `json:"name" validate:"required,max=255"`
	Image      string    `json:"image" validate:"required,max=1000"`
	Categories []string  `json:"categories" validate:"required,min=1,dive,oneof=birthday wedding anniversary graduation seasonal"`
	Type       MediaType `json:"type" validate:"omitempty,oneof=image video"`
	SortOrder  int       `json:"sort_order"`
}

// ListRequest filters the gallery
type ListRequest struct {
	Category string    `form:"category"` // empty or "all" for everything
	Type     MediaType `form:"type"`
}

func (r *ItemRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Image = strings.TrimSpace(r.Image)
	seen := make(map[string]bool, len(r.Categories))
	categories := r.Categories[:0:0]
	for _, c := range r.Categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	r.Categories = categories
	if r.Type == "" {
		r.Type = MediaImage
	}
}

// Validate checks the name, image and categories
func (r *ItemRequest) Validate() error {
	r.normalize()

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.StructField() {
		case "Name":
			problems = append(problems, "name is required")
		case "Image":
			problems = append(problems, "image is required")
		case "Type":
			problems = append(problems, "type must be image or video")
		default:
			problems = append(problems, "at least one valid category is required")
		}
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalidItem, strings.Join(problems, "; "))
}

// List returns gallery items in display order
func (s *Service) List(ctx context.Context, req *ListRequest) ([]Item, error) {
	query := s.db.WithContext(ctx).Model(&Item{})

	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category != "" && category != "all" {
		// categories is a JSON array column
		query = query.Where("categories LIKE ?", `%"`+category+`"%`)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}

	var items []Item
	if err := query.Order("sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list gallery items: %w", err)
	}
	return items, nil
}

// Get returns one gallery item
func (s *Service) Get(ctx context.Context, id uint) (*Item, error) {
	var item Item
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get gallery item: %w", err)
	}
	return &item, nil
}

// Create adds a gallery item
func (s *Service) Create(ctx context.Context, req *ItemRequest) (*Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := Item{
		Name:       req.Name,
		Image:      req.Image,
		Categories: req.Categories,
		Type:       req.Type,
		SortOrder:  req.SortOrder,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create gallery item: %w", err)
	}
	return &item, nil
}

// Update replaces a gallery item
func (s *Service) Update(ctx context.Context, id uint, req *ItemRequest) (*Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.Image = req.Image
	item.Categories = req.Categories
	item.Type = req.Type
	item.SortOrder = req.SortOrder
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update gallery item: %w", err)
	}
	return item, nil
}

// Delete removes a gallery item
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Item{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete gallery item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DefaultItems is the gallery shown on a fresh install
func DefaultItems() []Item {
	const unsplash = "https://images.unsplash.com/photo-%s?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"
	seed := []struct {
		name     string
		photo    string
		category string
		kind     MediaType
	}{
		{"Classic Birthday Cake", "1578985545062-69928b1d9587", CategoryBirthday, MediaImage},
		{"Wedding Elegance", "1622973536968-3ead9e780960", CategoryWedding, MediaImage},
		{"Graduation Cap Cake", "1619846227717-205b9dccac17", CategoryGraduation, MediaImage},
		{"Anniversary Delight", "1623246123320-0d6636755345", CategoryAnniversary, MediaImage},
		{"Christmas Fruitcake", "1606890737304-57a1ca8a5b62", CategorySeasonal, MediaImage},
		{"Chocolate Birthday Surprise", "1621303837174-89787a7d4729", CategoryBirthday, MediaImage},
		{"Wedding Cake Decorating", "1549517045-bc93de075e53", CategoryWedding, MediaVideo},
		{"Graduation Celebration Cake", "1615394695853-05dc8d6b293f", CategoryGraduation, MediaImage},
		{"Silver Anniversary Cake", "1627834377411-8da5f4f09de8", CategoryAnniversary, MediaImage},
		{"Valentine's Day Special", "1571115177098-24ec42ed204d", CategorySeasonal, MediaImage},
		{"Birthday Cake Assembly", "1594054528845-f9cfce2abd18", CategoryBirthday, MediaVideo},
		{"Easter Bunny Cake", "1555507036-ab1f4038808a", CategorySeasonal, MediaImage},
	}

	items := make([]Item, len(seed))
	for i, s := range seed {
		items[i] = Item{
			Name:       s.name,
			Image:      fmt.Sprintf(unsplash, s.photo),
			Categories: []string{s.category},
			Type:       s.kind,
			SortOrder:  i + 1,
		}
	}
	return items
}
