package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing.
type Product struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug                string         `gorm:"column:slug;not null;uniqueIndex"`
	Name                string         `gorm:"column:name;not null"`
	Description         *string        `gorm:"column:description"`
	Category            string         `gorm:"column:category;not null;index"`
	PriceCents          int64          `gorm:"column:price_cents;not null"`
	CompareAtPriceCents *int64         `gorm:"column:compare_at_price_cents"`
	Stock               int            `gorm:"column:stock;not null;default:0"`
	Images              pq.StringArray `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive            bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured          bool           `gorm:"column:is_featured;not null;default:false"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
