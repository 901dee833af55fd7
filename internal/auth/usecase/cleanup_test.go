package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/redinteligente/authcode/internal/auth/entity"
)

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	f.store.codes["100"] = &entity.AccessCode{Identity: "100", ExpiresAt: now.Add(-time.Minute)}
	f.store.codes["200"] = &entity.AccessCode{Identity: "200", ExpiresAt: now.Add(-time.Minute), Used: true}
	f.store.codes["300"] = &entity.AccessCode{Identity: "300", ExpiresAt: now.Add(10 * time.Minute)}

	deleted, err := f.uc.CleanupExpired(context.Background())
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	// Only the expired unused record goes; used records are retained by
	// default and live records are never touched.
	if deleted != 1 {
		t.Fatalf("expected 1 deleted record, got %d", deleted)
	}
	if f.store.record("100") != nil {
		t.Fatalf("expired unused record must be purged")
	}
	if f.store.record("200") == nil {
		t.Fatalf("used record must survive the default sweep")
	}
	if f.store.record("300") == nil {
		t.Fatalf("live record must never be purged")
	}
}

func TestCleanupExpiredNothingToDo(t *testing.T) {
	f := newFixture(t)

	deleted, err := f.uc.CleanupExpired(context.Background())
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected no deletions, got %d", deleted)
	}
}
