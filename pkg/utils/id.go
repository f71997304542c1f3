package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 无连字符的 32 位 id，和历史数据保持一致
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
