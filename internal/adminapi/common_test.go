package adminapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceToCents(t *testing.T) {
	assert.Equal(t, int64(1000), priceToCents(10))
	assert.Equal(t, int64(4550), priceToCents(45.50))
	// float64 cannot represent 19.99 exactly; rounding must absorb that
	assert.Equal(t, int64(1999), priceToCents(19.99))
	assert.Equal(t, int64(0), priceToCents(0))
}

func TestPhoneFormatting(t *testing.T) {
	assert.Equal(t, "+5511999990000", phoneFormatting.ReplaceAllString("+55 (11) 99999-0000", ""))
	assert.Equal(t, "5511999990000", phoneFormatting.ReplaceAllString("55 11 99999 0000", ""))
}
