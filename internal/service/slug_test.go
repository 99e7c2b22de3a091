package service

import (
	"strings"
	"testing"
)

func TestResolvePostSlug(t *testing.T) {
	cases := []struct {
		raw, title, want string
	}{
		{raw: "", title: "Hello, World!", want: "hello-world"},
		{raw: " My-Slug ", title: "ignored", want: "my-slug"},
		{raw: "", title: "  ", want: ""},
	}
	for _, tc := range cases {
		if got := resolvePostSlug(tc.raw, tc.title); got != tc.want {
			t.Fatalf("resolvePostSlug(%q, %q) want %q got %q", tc.raw, tc.title, tc.want, got)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	for _, value := range []string{"go-tips", "post_1", ""} {
		if err := validateSlug(value); err != nil {
			t.Fatalf("slug %q should be valid: %v", value, err)
		}
	}
	for _, value := range []string{"-leading", "with space", "Upper", "trailing-"} {
		if err := validateSlug(value); err == nil {
			t.Fatalf("slug %q should be invalid", value)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" go", "go ", "", "Go", "  ", "db"})
	if strings.Join(got, "|") != "go|Go|db" {
		t.Fatalf("unexpected tags: %v", got)
	}
	if got := normalizeTags(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil input should give empty slice, got %v", got)
	}
}
