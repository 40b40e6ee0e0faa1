package users

import (
	"context"
	"testing"

	"dime/internal/storage"
)

func TestGetOrCreateProvisionsOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	identity := ExternalIdentity{ID: "tg:42", Username: "alice", FirstName: "Alice"}

	first, err := svc.GetOrCreate(ctx, identity)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.GetOrCreate(ctx, identity)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same identity produced two users: %s vs %s", first.ID, second.ID)
	}
	if first.Username != "alice" {
		t.Fatalf("username not carried over: %+v", first)
	}
}

func TestGetOrCreateSeparatesIdentities(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	a, err := svc.GetOrCreate(ctx, ExternalIdentity{ID: "tg:1", Username: "a"})
	if err != nil {
		t.Fatalf("a: %v", err)
	}
	b, err := svc.GetOrCreate(ctx, ExternalIdentity{ID: "tg:2", Username: "b"})
	if err != nil {
		t.Fatalf("b: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("distinct identities mapped to the same user")
	}
}

func TestSetDefaultCurrency(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	user, err := svc.GetOrCreate(ctx, ExternalIdentity{ID: "tg:1", Username: "a"})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	reply, err := svc.SetDefaultCurrency(ctx, user, "eur")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if reply != "Currency set to EUR" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	code, err := svc.DefaultCurrencyCode(ctx, user)
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if code != "EUR" {
		t.Fatalf("default code: got %q want EUR", code)
	}
}

func TestSetDefaultCurrencyUnknownCode(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	user, err := svc.GetOrCreate(ctx, ExternalIdentity{ID: "tg:1", Username: "a"})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	reply, err := svc.SetDefaultCurrency(ctx, user, "ZZZ")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if reply != "Currency ZZZ not found." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if user.HasDefaultCurrency() {
		t.Fatalf("default set despite unknown code: %+v", user)
	}
}

func TestDefaultCurrencyCodeEmptyWhenUnset(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	user, err := svc.GetOrCreate(ctx, ExternalIdentity{ID: "tg:1", Username: "a"})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	code, err := svc.DefaultCurrencyCode(ctx, user)
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if code != "" {
		t.Fatalf("expected empty code, got %q", code)
	}
}
