package utils

import (
	"regexp"
	"strings"
	"testing"
)

var slugCharset = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugifyAccents(t *testing.T) {
	if got := Slugify("São Paulo"); got != "sao-paulo" {
		t.Fatalf("Slugify(São Paulo) = %q, want sao-paulo", got)
	}
	if got := Slugify("São José dos Campos"); got != "sao-jose-dos-campos" {
		t.Fatalf("Slugify(São José dos Campos) = %q", got)
	}
}

func TestSlugifyCharset(t *testing.T) {
	inputs := []string{
		"  Pizza & Pasta!!  ",
		"Café--com__Leite",
		"UPPER case NAME",
		"açaí no pote 2",
	}
	for _, in := range inputs {
		got := Slugify(in)
		if !slugCharset.MatchString(got) {
			t.Errorf("Slugify(%q) = %q: not in [a-z0-9-] without edge/double hyphens", in, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Slugify(%q) = %q: hyphen at edge", in, got)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	for _, in := range []string{"São Paulo", "Pizza & Pasta", "already-a-slug"} {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
