package digits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnly(t *testing.T) {
	assert.Equal(t, "11987654321", Only("(11) 9 8765-4321"))
	assert.Equal(t, "15031990", Only("15/03/1990"))
	assert.Equal(t, "", Only("abc"))
	assert.Equal(t, "2", Only("١2"))
}

func TestFormatPhone(t *testing.T) {
	tests := map[string]string{
		"11987654321":      "(11) 9 8765-4321",
		"1134567890":       "(11) 3456-7890",
		"987654321":        "9 8765-4321",
		"34567890":         "3456-7890",
		"(11) 9 8765-4321": "(11) 9 8765-4321",
		"123":              "123",
		"":                 "",
	}

	for in, want := range tests {
		assert.Equal(t, want, FormatPhone(in), in)
	}
}

func TestFormatBirthDate(t *testing.T) {
	assert.Equal(t, "15/03/1990", FormatBirthDate("15031990"))
	assert.Equal(t, "15/03/90", FormatBirthDate("150390"))
	assert.Equal(t, "15/03", FormatBirthDate("1503"))
	assert.Equal(t, "1", FormatBirthDate("1"))
}
