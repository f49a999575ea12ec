package domain

import (
	"database/sql/driver"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// StringList stores an ordered list of labels as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := jsoniter.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return jsoniter.Unmarshal(v, (*[]string)(l))
	case string:
		return jsoniter.Unmarshal([]byte(v), (*[]string)(l))
	default:
		return errors.Errorf("unsupported StringList source type %T", src)
	}
}

// Product is a catalog item. Price is kept in minor currency units (cents)
// so money math stays integral.
type Product struct {
	ID          int64          `json:"id,string" form:"id"`
	Name        string         `gorm:"uniqueIndex;size:200" json:"name" form:"name"`
	Description string         `gorm:"size:2000" json:"description" form:"description"`
	Category    string         `gorm:"index;size:100" json:"category" form:"category"`
	Price       int64          `json:"price" form:"price"`
	Variations  StringList     `gorm:"type:text" json:"variations" form:"variations"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "shop_product"
}

// ProductImage references an upload held by the external image store.
type ProductImage struct {
	ID         int64  `json:"id,string"`
	ProductID  int64  `gorm:"index" json:"product_id,string"`
	ExternalID string `gorm:"size:200" json:"external_id"`
	URL        string `gorm:"size:1024" json:"url"`
}

// TableName Specify table name
func (ProductImage) TableName() string {
	return "shop_product_image"
}
