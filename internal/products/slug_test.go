package products

import (
	"context"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Heavy Duty Padlock 60mm": "heavy-duty-padlock-60mm",
		"  Çelik Kapı Kilidi  ":   "elik-kap-kilidi",
		"!!!":                     "product",
		"Smart-Lock (v2)":         "smart-lock-v2",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestUniqueSlugNoCollision(t *testing.T) {
	slug, err := UniqueSlug(context.Background(), "Brass Padlock", func(context.Context, string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slug != "brass-padlock" {
		t.Fatalf("unexpected slug %q", slug)
	}
}

func TestUniqueSlugNumericSuffix(t *testing.T) {
	taken := map[string]bool{
		"brass-padlock":   true,
		"brass-padlock-1": true,
		"brass-padlock-2": true,
	}
	slug, err := UniqueSlug(context.Background(), "Brass Padlock", func(_ context.Context, candidate string) (bool, error) {
		return taken[candidate], nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slug != "brass-padlock-3" {
		t.Fatalf("expected numeric suffix resolution, got %q", slug)
	}
}

func TestUniqueSlugTimestampFallback(t *testing.T) {
	calls := 0
	slug, err := UniqueSlug(context.Background(), "Brass Padlock", func(context.Context, string) (bool, error) {
		calls++
		// Every numeric candidate is taken, forcing the fallback.
		return true, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != slugMaxNumericAttempts+1 {
		t.Fatalf("expected %d uniqueness checks, got %d", slugMaxNumericAttempts+1, calls)
	}
	if !strings.HasPrefix(slug, "brass-padlock-") {
		t.Fatalf("expected timestamp suffix, got %q", slug)
	}
	if len(slug) <= len("brass-padlock-1000") {
		t.Fatalf("expected long timestamp suffix, got %q", slug)
	}
}
