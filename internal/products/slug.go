package products

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// slugMaxNumericAttempts caps the -1, -2, ... collision suffixes before
// falling back to a timestamp suffix.
const slugMaxNumericAttempts = 1000

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the base slug from a product name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "product"
	}
	return slug
}

// SlugExistsFunc reports whether a slug is already taken by another product.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug resolves slug collisions by suffixing -1, -2, ... and falls
// back to a timestamp suffix when the numeric space is exhausted.
func UniqueSlug(ctx context.Context, name string, exists SlugExistsFunc) (string, error) {
	base := Slugify(name)

	taken, err := exists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("checking slug %s: %w", base, err)
	}
	if !taken {
		return base, nil
	}

	for i := 1; i <= slugMaxNumericAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return fmt.Sprintf("%s-%d", base, time.Now().UnixNano()), nil
}
