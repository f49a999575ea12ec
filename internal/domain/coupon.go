package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon holds a discount as a multiplier in (0,1]: 10% off is stored as 0.9.
// Names are uppercase and unique.
type Coupon struct {
	ID        int64           `json:"id,string" form:"id"`
	Name      string          `gorm:"uniqueIndex;size:50" json:"name" form:"name"`
	Discount  decimal.Decimal `gorm:"type:numeric(6,4)" json:"discount"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName Specify table name
func (Coupon) TableName() string {
	return "shop_coupon"
}
