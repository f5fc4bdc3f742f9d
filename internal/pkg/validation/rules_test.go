package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidStudentID(t *testing.T) {
	valid := []string{"S2024001", "12345678", "abc123"}
	for _, id := range valid {
		assert.True(t, ValidStudentID(id), id)
	}

	invalid := []string{"", "abc", "with space", "too-long-identifier-x", "id#1234"}
	for _, id := range invalid {
		assert.False(t, ValidStudentID(id), id)
	}
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("secret123"))
	assert.False(t, ValidPassword("short1"), "below minimum length")
	assert.False(t, ValidPassword("onlyletters"), "missing digit")
	assert.False(t, ValidPassword("12345678"), "missing letter")
}

func TestValidPhoneNumber(t *testing.T) {
	assert.True(t, ValidPhoneNumber(""), "phone is optional")
	assert.True(t, ValidPhoneNumber("+905551112233"))
	assert.True(t, ValidPhoneNumber("5551112"))
	assert.False(t, ValidPhoneNumber("not-a-phone"))
	assert.False(t, ValidPhoneNumber("123"))
}

func TestValidDateRange(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, ValidDateRange(start, start.AddDate(0, 3, 0)))
	assert.False(t, ValidDateRange(start, start), "equal dates")
	assert.False(t, ValidDateRange(start, start.AddDate(0, -1, 0)))
}
