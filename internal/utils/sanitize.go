package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// cards and memos are plain text; strip every html element before the
// content reaches storage or a broadcast payload
var strict = bluemonday.StrictPolicy()

func SanitizeContent(content string) string {
	return strings.TrimSpace(strict.Sanitize(content))
}
