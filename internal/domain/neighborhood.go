package domain

import "time"

// Neighborhood maps a delivery area to its fee in minor currency units.
type Neighborhood struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name" form:"name"`
	Price     int64     `json:"price" form:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Neighborhood) TableName() string {
	return "shop_neighborhood"
}
