package models

import "time"

// Course is catalog reference data; the browsing UI lives outside this
// service, which only needs the required tier for access checks.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Slug         string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug"`
	Description  string    `gorm:"type:text" json:"description"`
	RequiredTier string    `gorm:"type:varchar(50);not null;default:'free';index" json:"required_tier"`
	IsPublished  bool      `gorm:"default:false;index" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
