package asr

import (
	"regexp"
	"strings"

	"github.com/siongui/gojianfan"
)

var tagRE = regexp.MustCompile(`<[^>]*>`)

// StripTags removes embedded language/event tags like <zh> or <asr> from a
// chunk's raw output.
func StripTags(s string) string {
	return strings.TrimSpace(tagRE.ReplaceAllString(s, ""))
}

// ToTraditional converts simplified characters to traditional. Apply once
// to the fully concatenated transcript, never per chunk.
func ToTraditional(s string) string {
	return gojianfan.S2T(s)
}
