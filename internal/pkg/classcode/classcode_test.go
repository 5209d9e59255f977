package classcode

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	neverTaken := func(ctx context.Context, code string) (bool, error) { return false, nil }

	code, err := Generate(ctx, neverTaken)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(code) != Length {
		t.Errorf("Generate() returned %q, want %d characters", code, Length)
	}
	for _, c := range code {
		if !strings.ContainsRune(alphabet, c) {
			t.Errorf("Generate() returned %q with character %q outside the alphabet", code, c)
		}
	}
	if !IsValid(code) {
		t.Errorf("Generate() returned %q which IsValid rejects", code)
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	ctx := context.Background()

	// First two candidates are reported taken, third one is free.
	calls := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls <= 2, nil
	}

	code, err := Generate(ctx, exists)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("Generate() checked %d candidates, want 3", calls)
	}
	if !IsValid(code) {
		t.Errorf("Generate() returned invalid code %q", code)
	}
}

func TestGenerateGivesUpWhenSpaceExhausted(t *testing.T) {
	ctx := context.Background()

	alwaysTaken := func(ctx context.Context, code string) (bool, error) { return true, nil }

	if _, err := Generate(ctx, alwaysTaken); err == nil {
		t.Fatal("Generate() expected error when every candidate collides")
	}
}

func TestGeneratePropagatesLookupError(t *testing.T) {
	ctx := context.Background()
	lookupErr := errors.New("connection refused")

	failing := func(ctx context.Context, code string) (bool, error) { return false, lookupErr }

	_, err := Generate(ctx, failing)
	if !errors.Is(err, lookupErr) {
		t.Errorf("Generate() error = %v, want wrapped %v", err, lookupErr)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "uppercase letters", code: "ABCDEF", want: true},
		{name: "letters and digits", code: "A1B2C3", want: true},
		{name: "all digits", code: "123456", want: true},
		{name: "too short", code: "ABC12", want: false},
		{name: "too long", code: "ABC1234", want: false},
		{name: "lowercase rejected", code: "abc123", want: false},
		{name: "punctuation rejected", code: "AB-123", want: false},
		{name: "empty", code: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.code); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
