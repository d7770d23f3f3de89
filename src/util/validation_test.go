package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("jane.doe+money@example.co"))
	assert.False(t, ValidateEmail("jane@"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("12345"))
	assert.True(t, ValidatePassword("123456"))
}

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("Jane"))
	assert.False(t, ValidateName("   "))
}

func TestValidateColor(t *testing.T) {
	assert.True(t, ValidateColor("#BDC3C7"))
	assert.False(t, ValidateColor("BDC3C7"))
	assert.False(t, ValidateColor("#BDC3C"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, EscapeLike(`50%_off\`))
	assert.Equal(t, "coffee", EscapeLike("coffee"))
}
