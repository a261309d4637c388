// internal/domain/gallery/entity.go
package gallery

import (
	"errors"
	"time"
)

var (
	ErrItemNotFound = errors.New("gallery item not found")
	ErrInvalidItem  = errors.New("invalid gallery item")
)

// Gallery categories
const (
	CategoryBirthday    = "birthday"
	CategoryWedding     = "wedding"
	CategoryAnniversary = "anniversary"
	CategoryGraduation  = "graduation"
	CategorySeasonal    = "seasonal"
)

// Categories lists the gallery categories in display order
var Categories = []string{
	CategoryBirthday,
	CategoryWedding,
	CategoryAnniversary,
	CategoryGraduation,
	CategorySeasonal,
}

// MediaType tells the gallery whether to render a picture or a clip
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Item is one showcased cake
type Item struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Image      string    `gorm:"not null;size:1000" json:"image"`
	Categories []string  `gorm:"serializer:json;type:text;not null" json:"categories"`
	Type       MediaType `gorm:"not null;size:10" json:"type"`
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "gallery_items"
}

// HasCategory reports whether the item is tagged with category
func (i *Item) HasCategory(category string) bool {
	for _, c := range i.Categories {
		if c == category {
			return true
		}
	}
	return false
}
