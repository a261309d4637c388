// internal/domain/settings/entity.go
package settings

import (
	"time"

	"github.com/your-org/bakehouse-backend/internal/pkg/money"
)

// WebsiteSettings holds the business details shown across the storefront and
// the delivery pricing used at checkout. There is at most one row.
type WebsiteSettings struct {
	ID                    uint         `gorm:"primaryKey" json:"id"`
	BusinessName          string       `gorm:"not null;size:255" json:"business_name"`
	Tagline               string       `gorm:"size:255" json:"tagline"`
	Description           string       `gorm:"type:text" json:"description"`
	Phone                 string       `gorm:"size:50" json:"phone"`
	Email                 string       `gorm:"size:255" json:"email"`
	Address               string       `gorm:"size:500" json:"address"`
	BusinessHours         string       `gorm:"size:500" json:"business_hours"`
	DeliveryArea          string       `gorm:"size:255" json:"delivery_area"`
	DeliveryFee           money.Amount `gorm:"not null" json:"delivery_fee"`            // In cents
	FreeDeliveryThreshold money.Amount `gorm:"not null" json:"free_delivery_threshold"` // In cents, 0 disables
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

func (WebsiteSettings) TableName() string { return "website_settings" }

// Defaults returns the settings used until an admin saves their own
func Defaults() WebsiteSettings {
	return WebsiteSettings{
		BusinessName:          "Teejay Bakehouse",
		Tagline:               "Delicious Custom Cakes for Every Occasion",
		Description:           "At Teejay Bakehouse, we create beautiful, delicious cakes that make your special moments unforgettable.",
		Phone:                 "+27 (0) 11 123 4567",
		Email:                 "hello@teejaybakehouse.co.za",
		Address:               "123 Baker Street, Johannesburg, South Africa",
		BusinessHours:         "Monday - Friday: 8:00 AM - 6:00 PM, Saturday: 9:00 AM - 4:00 PM, Sunday: Closed",
		DeliveryArea:          "15km radius of our store",
		DeliveryFee:           money.FromMinor(5000),
		FreeDeliveryThreshold: money.FromMinor(40000),
	}
}

// QualifiesForFreeDelivery reports whether a subtotal waives the delivery fee
func (s *WebsiteSettings) QualifiesForFreeDelivery(subtotal money.Amount) bool {
	return s.FreeDeliveryThreshold > 0 && subtotal >= s.FreeDeliveryThreshold
}

// DeliveryFeeFor returns the fee charged to deliver an order of the given subtotal
func (s *WebsiteSettings) DeliveryFeeFor(subtotal money.Amount) money.Amount {
	if s.QualifiesForFreeDelivery(subtotal) {
		return 0
	}
	return s.DeliveryFee
}
