package secrets

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory()
	m.Set("github", "token", "hunter2")

	got, err := m.Get(context.Background(), "github", "token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("value = %q, want hunter2", got)
	}
}

func TestMemory_NotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), "github", "token")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "github/token") {
		t.Errorf("error %q does not name the secret", err)
	}
}

func TestMemory_KeysDoNotCollide(t *testing.T) {
	m := NewMemory()
	m.Set("a", "b", "one")
	m.Set("ab", "", "two")

	got, err := m.Get(context.Background(), "a", "b")
	if err != nil || got != "one" {
		t.Fatalf("Get(a, b) = %q, %v", got, err)
	}
}
