package shared

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

var (
	uuidPattern      = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern     = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{6,19}$`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	codePattern      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	referencePattern = regexp.MustCompile(`^BK-[0-9]{8}-[A-Z0-9]{6}$`)
	slugStrip        = regexp.MustCompile(`[^a-z0-9]+`)

	// Policies are safe for concurrent use once built
	textPolicy = bluemonday.StrictPolicy()
	htmlPolicy = bluemonday.UGCPolicy()
)

const (
	maxEmailLength = 254
	minPhoneDigits = 7

	// each pass can uncover at most one level of entity encoding
	maxStripPasses = 4
)

// IsValidUUID reports whether s is a canonical UUID string
func IsValidUUID(s string) bool {
	if !uuidPattern.MatchString(s) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsValidEmail reports whether s looks like an email address
func IsValidEmail(s string) bool {
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s looks like a phone number.
// Separators are allowed; at least seven digits are required.
func IsValidPhone(s string) bool {
	if !phonePattern.MatchString(s) {
		return false
	}
	return len(digitsOnly(s)) >= minPhoneDigits
}

// IsValidSlug reports whether s is a lowercase kebab-case slug
func IsValidSlug(s string) bool {
	return len(s) <= 200 && slugPattern.MatchString(s)
}

// IsValidCode reports whether s is an alphanumeric business code
func IsValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// IsValidBookingReference reports whether s matches BK-YYYYMMDD-XXXXXX
func IsValidBookingReference(s string) bool {
	return referencePattern.MatchString(s)
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps digits and a leading plus sign
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	d := digitsOnly(s)
	if strings.HasPrefix(s, "+") {
		return "+" + d
	}
	return d
}

// Slugify turns free text into a slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// StripTags returns the plain text of s with every element removed.
// Decoding and stripping repeat until the text contains nothing the HTML
// tokenizer reads as a tag, so entity-encoded markup cannot come back to
// life. Input that does not settle is returned in its escaped form.
func StripTags(s string) string {
	for i := 0; i < maxStripPasses; i++ {
		stripped := textPolicy.Sanitize(s)
		plain := html.UnescapeString(stripped)
		if plain == s {
			return plain
		}
		s = plain
	}
	return textPolicy.Sanitize(s)
}

// SanitizeHTML keeps the formatting markup of user content (paragraphs,
// links, lists, images) and drops scripts, handlers and unsafe URLs
func SanitizeHTML(s string) string {
	return htmlPolicy.Sanitize(s)
}

// SanitizeString strips tags, drops control characters and trims whitespace
func SanitizeString(s string) string {
	s = StripTags(dropControl(s))
	return strings.TrimSpace(dropControl(s))
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dropControl removes control characters other than newline and tab
func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
