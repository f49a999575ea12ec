package domain

import "time"

// Account is the administrator login. The system runs with a single
// account bootstrapped at startup; Password holds a bcrypt hash.
type Account struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `json:"name" form:"name"`
	Email     string    `gorm:"uniqueIndex;size:200" json:"email" form:"email"`
	Password  string    `json:"-" form:"-"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Account) TableName() string {
	return "sys_account"
}
