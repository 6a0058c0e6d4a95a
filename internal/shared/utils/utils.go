package utils

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GetEnvVariable lấy env var với fallback
func GetEnvVariable(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseUUID trả về uuid.Nil nếu s không hợp lệ
func ParseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ParsePage: page <= 0 hoặc không parse được → 1
func ParsePage(s string) int {
	page, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || page <= 0 {
		return 1
	}
	return page
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLikePattern escape ký tự đặc biệt của LIKE/ILIKE (dùng với ESCAPE '\').
// Search term do user nhập, không bao giờ được hiểu như pattern.
func EscapeLikePattern(term string) string {
	return likeEscaper.Replace(term)
}

// LiteralMatcher tạo regexp case-insensitive match đúng chuỗi con term
func LiteralMatcher(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
}
