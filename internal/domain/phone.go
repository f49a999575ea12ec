package domain

import "time"

// Phone is the WhatsApp destination number for checkout hand-off.
// Only one row may exist; creation is rejected while one is present.
type Phone struct {
	ID        int64     `json:"id,string" form:"id"`
	Number    string    `gorm:"size:30" json:"number" form:"number"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Phone) TableName() string {
	return "shop_phone"
}
