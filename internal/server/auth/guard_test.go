package auth

import (
	"errors"
	"testing"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

func TestRequireFullyAuthenticated(t *testing.T) {
	t.Parallel()

	if err := RequireFullyAuthenticated(&Claims{IsFullyAuthenticated: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RequireFullyAuthenticated(&Claims{IsFullyAuthenticated: false}); !errors.Is(err, common.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if err := RequireFullyAuthenticated(nil); !errors.Is(err, common.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for nil claims, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	if err := RequireAdmin(&Claims{IsAdmin: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RequireAdmin(&Claims{IsAdmin: false}); !errors.Is(err, common.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}
