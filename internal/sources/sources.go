// Package sources decides which submitted URLs the separation backend can
// download from.
package sources

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tag is the validator tag for struct fields holding a source URL.
const Tag = "stemsource"

// YouTube and SoundCloud, with optional scheme and www. prefix.
var supportedURL = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be|soundcloud\.com|m\.soundcloud\.com)/.+$`)

// IsSupported reports whether url points at a supported source.
func IsSupported(url string) bool {
	return supportedURL.MatchString(url)
}

// Filter splits batch input into supported and rejected entries. Entries are
// trimmed and blank ones dropped; input order is kept.
func Filter(urls []string) (valid, rejected []string) {
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if IsSupported(u) {
			valid = append(valid, u)
		} else {
			rejected = append(rejected, u)
		}
	}
	return valid, rejected
}

// SplitLines turns a newline separated block of URLs into entries.
func SplitLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// RegisterValidation installs the stemsource tag on v.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		return IsSupported(strings.TrimSpace(fl.Field().String()))
	})
}
