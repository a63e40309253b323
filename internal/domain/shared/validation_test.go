package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.False(t, IsValidUUID("550e8400e29b41d4a716446655440000"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID("'; DROP TABLE bookings; --"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"guest@hotel.com", true},
		{"first.last+tag@sub.example.co", true},
		{"no-at-sign.com", false},
		{"missing@tld", false},
		{"", false},
		{"spaces in@mail.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("+1 (555) 123-4567"))
	assert.True(t, IsValidPhone("0812345678"))
	assert.False(t, IsValidPhone("12345"))
	assert.False(t, IsValidPhone("+1 555 abc 4567"))
	assert.True(t, IsValidPhone("+1234567890123456"))
	assert.False(t, IsValidPhone("+123456789012345678901"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+15551234567", NormalizePhone(" +1 (555) 123-4567 "))
	assert.Equal(t, "0812345678", NormalizePhone("081-234-5678"))
	assert.Equal(t, "", NormalizePhone("  "))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "grand-palace-hotel", Slugify("  Grand Palace Hotel! "))
	assert.Equal(t, "cafe-23", Slugify("Cafe #23"))
	assert.True(t, IsValidSlug(Slugify("Sea View Resort & Spa")))
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tags and script", "  <b>Hello</b> world<script>alert(1)</script>\x00 ", "Hello world"},
		{"entities decoded", "a &amp; b", "a & b"},
		{"apostrophe kept", "O'Brien & Sons", "O'Brien & Sons"},
		{"less-than in text", "2 < 3 nights", "2 < 3 nights"},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"double encoded script", "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;", ""},
		{"encoded image handler", "&lt;img src=x onerror=alert(1)&gt;Room", "Room"},
		{"unclosed script", "Suite<script src=//evil.test/x.js>", "Suite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeString(tt.input))
		})
	}
}

func TestStripTags_NeverYieldsMarkup(t *testing.T) {
	inputs := []string{
		"<scr<script>x</script>ipt>alert(1)</script>",
		"&lt;scr&lt;script&gt;x&lt;/script&gt;ipt&gt;alert(1)&lt;/script&gt;",
		"<<script>script>alert(1)<</script>/script>",
		"&#60;iframe src=javascript:alert(1)&#62;",
	}
	for _, in := range inputs {
		out := StripTags(in)
		assert.NotContains(t, out, "<script", in)
		assert.NotContains(t, out, "<iframe", in)
		assert.Equal(t, out, StripTags(out), "stripping is idempotent for %q", in)
	}
}

func TestSanitizeHTML(t *testing.T) {
	assert.Equal(t, "<p>ok</p>", SanitizeHTML("<p>ok</p><script src=x></script>"))
	assert.Equal(t, "<p>Pool</p>", SanitizeHTML(`<p onclick="steal()">Pool</p>`))
	assert.Equal(t, "", SanitizeHTML("<script src=//evil.test/x.js>"))

	nested := SanitizeHTML("<scr<script>x</script>ipt>alert(1)</script>")
	assert.NotContains(t, nested, "<script")

	encoded := SanitizeHTML("&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, encoded, "<script")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo wörld", 5))
	assert.Equal(t, "short", Truncate("short", 10))
}

func TestIsValidBookingReference(t *testing.T) {
	assert.True(t, IsValidBookingReference("BK-20260101-AB12CD"))
	assert.False(t, IsValidBookingReference("BK-2026-AB12CD"))
}
