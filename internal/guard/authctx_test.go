package guard

import (
	"context"
	"testing"

	"github.com/and161185/blogfront/internal/model"
)

func TestWithIdentity_And_IdentityFromCtx(t *testing.T) {
	t.Parallel()

	if id, ok := IdentityFromCtx(context.Background()); ok || id != (model.Identity{}) {
		t.Fatalf("expected no identity in empty ctx")
	}

	want := model.Identity{ID: 7, Name: "Ann", Email: "ann@example.com"}
	got, ok := IdentityFromCtx(WithIdentity(context.Background(), want))
	if !ok {
		t.Fatalf("expected identity in ctx")
	}
	if got != want {
		t.Fatalf("mismatch: got %+v, want %+v", got, want)
	}

	bad := context.WithValue(context.Background(), identityKey, "not-identity")
	if _, ok := IdentityFromCtx(bad); ok {
		t.Fatalf("expected miss on wrong typed value")
	}
}
