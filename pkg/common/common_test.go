package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleWords(t *testing.T) {
	assert.Equal(t, "Meias E Luvas", TitleWords("meias e luvas"))
	assert.Equal(t, "Suplementos", TitleWords("  SUPLEMENTOS  "))
	assert.Equal(t, "Roupas De Academia", TitleWords("rOuPaS dE aCaDeMiA"))
	assert.Equal(t, "", TitleWords("   "))
}

func TestUUIDint64(t *testing.T) {
	a := UUIDint64()
	b := UUIDint64()
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
}
