package validation

import (
	"net/url"
	"strings"
)

// Violations maps field names to error codes rendered by the templates.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "error.required"
	}
}

// LengthBetween records a violation when value is outside [min, max] runes.
// Empty values are left to Required so optional fields stay optional.
func LengthBetween(field, value string, min, max int, v Violations) {
	if value == "" {
		return
	}
	n := len([]rune(value))
	if n < min {
		v[field] = "error.too_short"
		return
	}
	if n > max {
		v[field] = "error.too_long"
	}
}

func MaxLen(field, value string, max int, v Violations) {
	if len([]rune(value)) > max {
		v[field] = "error.too_long"
	}
}

// Email performs the shallow shape check the signup form needs.
func Email(field, value string, v Violations) {
	at := strings.IndexByte(value, '@')
	if at <= 0 || at == len(value)-1 || !strings.Contains(value[at:], ".") {
		v[field] = "error.invalid"
	}
}

// OneOf records a violation when value is not in the allowed set.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	v[field] = "error.invalid"
}

// URL validates an absolute http(s) URL. Empty values pass.
func URL(field, value string, v Violations) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v[field] = "error.invalid_url"
	}
}
