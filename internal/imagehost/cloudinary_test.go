package imagehost

import "testing"

func TestExtractPublicID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345/businesses/abc123.jpg", "businesses/abc123"},
		{"https://res.cloudinary.com/demo/image/upload/cities/sao-paulo.png", "cities/sao-paulo"},
		{"https://example.com/static/logo.png", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractPublicID(tc.url); got != tc.want {
			t.Errorf("ExtractPublicID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
