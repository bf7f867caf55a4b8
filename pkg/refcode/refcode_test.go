package refcode

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateFormat(t *testing.T) {
	ctx := context.Background()
	code, err := Generate(ctx, "ORD", 9, func(context.Context, string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(code, "ORD") {
		t.Fatalf("expected ORD prefix, got %s", code)
	}
	if len(code) != 12 {
		t.Fatalf("expected 12 characters, got %d (%s)", len(code), code)
	}
	for _, r := range code {
		if !strings.ContainsRune(charset, r) {
			t.Fatalf("unexpected character %q in %s", r, code)
		}
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	calls := 0
	code, err := Generate(ctx, "JOB", 10, func(context.Context, string) (bool, error) {
		calls++
		return calls <= 3, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 uniqueness checks, got %d", calls)
	}
	if len(code) != 13 {
		t.Fatalf("expected 13 characters, got %d", len(code))
	}
}

func TestGenerateWidensSuffix(t *testing.T) {
	ctx := context.Background()
	calls := 0
	code, err := Generate(ctx, "ORD", 9, func(_ context.Context, candidate string) (bool, error) {
		calls++
		// Reject every 9-char suffix so the generator is forced to widen.
		return len(candidate) == len("ORD")+9, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != len("ORD")+10 {
		t.Fatalf("expected widened suffix, got %s", code)
	}
	if calls != maxAttempts+1 {
		t.Fatalf("expected %d checks, got %d", maxAttempts+1, calls)
	}
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	ctx := context.Background()
	_, err := Generate(ctx, "ORD", 9, func(context.Context, string) (bool, error) {
		return true, nil
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
}

func TestGeneratePropagatesCheckError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")
	_, err := Generate(ctx, "ORD", 9, func(context.Context, string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped check error, got %v", err)
	}
}

func TestGenerateValidatesInputs(t *testing.T) {
	ctx := context.Background()
	if _, err := Generate(ctx, "", 9, func(context.Context, string) (bool, error) { return false, nil }); err == nil {
		t.Fatal("expected error for empty prefix")
	}
	if _, err := Generate(ctx, "ORD", 0, func(context.Context, string) (bool, error) { return false, nil }); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := Generate(ctx, "ORD", 9, nil); err == nil {
		t.Fatal("expected error for nil exists func")
	}
}
