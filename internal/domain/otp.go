package domain

import "time"

// One-time code purposes.
const (
	OtpPurposePassword = "Password"
	OtpPurposeEmail    = "Email"
)

// Otp is a single-use code authorizing a sensitive account action.
// Code holds a bcrypt hash of the secret; the plaintext is only ever
// mailed to the account owner. The unique index on Purpose enforces
// at most one live code per purpose.
type Otp struct {
	ID        int64     `json:"id,string"`
	Purpose   string    `gorm:"uniqueIndex;size:20" json:"purpose"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Otp) TableName() string {
	return "sys_otp"
}
