// internal/domain/settings/service.go
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
	"gorm.io/gorm"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Service reads and writes the website settings row
type Service struct {
	db *gorm.DB
}

// NewService creates a new settings service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// UpdateRequest carries the admin settings form. Fees are in major units
// and may arrive as JSON numbers or strings.
type UpdateRequest struct {
	BusinessName          string           `json:"business_name" binding:"required"`
	Tagline               string           `json:"tagline"`
	Description           string           `json:"description"`
	Phone                 string           `json:"phone"`
	Email                 string           `json:"email" binding:"omitempty,email"`
	Address               string           `json:"address"`
	BusinessHours         string           `json:"business_hours"`
	DeliveryArea          string           `json:"delivery_area"`
	DeliveryFee           *decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryThreshold *decimal.Decimal `json:"free_delivery_threshold"`
}

// Get returns the stored settings, or the defaults when nothing was saved yet
func (s *Service) Get(ctx context.Context) (*WebsiteSettings, error) {
	var settings WebsiteSettings
	err := s.db.WithContext(ctx).Order("id ASC").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := Defaults()
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to retrieve settings: %w", err)
	}
	return &settings, nil
}

// Save creates the settings row or overwrites the existing one
func (s *Service) Save(ctx context.Context, req *UpdateRequest) (*WebsiteSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	next := *current
	next.BusinessName = req.BusinessName
	next.Tagline = req.Tagline
	next.Description = req.Description
	next.Phone = req.Phone
	next.Email = req.Email
	next.Address = req.Address
	next.BusinessHours = req.BusinessHours
	next.DeliveryArea = req.DeliveryArea

	if req.DeliveryFee != nil {
		if req.DeliveryFee.IsNegative() {
			return nil, fmt.Errorf("%w: delivery fee must not be negative", ErrInvalidSettings)
		}
		next.DeliveryFee = money.FromDecimal(*req.DeliveryFee)
	}
	if req.FreeDeliveryThreshold != nil {
		if req.FreeDeliveryThreshold.IsNegative() {
			return nil, fmt.Errorf("%w: free delivery threshold must not be negative", ErrInvalidSettings)
		}
		next.FreeDeliveryThreshold = money.FromDecimal(*req.FreeDeliveryThreshold)
	}

	if err := s.db.WithContext(ctx).Save(&next).Error; err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return &next, nil
}
