package domain

import "time"

// Category is a free-text product grouping. Names are stored
// word-title-cased and must be unique.
type Category struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name" form:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "shop_category"
}
