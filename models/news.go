package models

// News is an announcement shown in the app feed. Pinned items sort first.
type News struct {
	ID         string  `gorm:"primaryKey;type:uuid" json:"id"`
	Title      string  `gorm:"size:255;not null" json:"title"`
	Content    string  `gorm:"type:text" json:"content"`
	MediaType  string  `gorm:"size:20;default:'text'" json:"media_type"` // text, image, video, mixed
	MediaURL   *string `gorm:"size:500" json:"media_url,omitempty"`
	IsPinned   bool    `gorm:"default:false" json:"is_pinned"`
	IsActive   bool    `gorm:"default:true" json:"is_active"`
	ViewsCount int64   `gorm:"default:0" json:"views_count"`

	Timestamps
}
