package gorm

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKey recognises unique violations from sqlite and postgres,
// with or without gorm's error translation enabled.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
