package ratelimit

import (
	"testing"
	"time"

	"github.com/kiranapage/kiranapage/internal/testutil"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 5, 15*time.Minute, 30*time.Minute)
	if store == nil {
		t.Fatal("New() returned nil")
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 5, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}

	// Should be idempotent
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() second call error = %v", err)
	}
}

func TestStore_CheckAllowed_NoRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 5, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	allowed, remaining, lockedUntil := store.CheckAllowed(ctx, "919876543210")

	if !allowed {
		t.Error("CheckAllowed() should return true for new mobile")
	}
	if remaining != 5 {
		t.Errorf("CheckAllowed() remaining = %d, want 5", remaining)
	}
	if lockedUntil != nil {
		t.Error("CheckAllowed() lockedUntil should be nil for new mobile")
	}
}

func TestStore_CheckAllowed_FormatInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 5, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Record failure with a formatted number
	store.RecordFailure(ctx, "+91 98765 43210")

	// Check with bare digits - should see the same record
	allowed, remaining, _ := store.CheckAllowed(ctx, "9876543210")

	if !allowed {
		t.Error("CheckAllowed() should return true")
	}
	if remaining != 4 {
		t.Errorf("CheckAllowed() remaining = %d, want 4 (same mobile)", remaining)
	}
}

func TestStore_RecordFailure_IncreasesCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 5, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mobile := "919812345678"

	// First failure
	lockedOut, _ := store.RecordFailure(ctx, mobile)
	if lockedOut {
		t.Error("RecordFailure() should not lock out on first failure")
	}

	allowed, remaining, _ := store.CheckAllowed(ctx, mobile)
	if !allowed {
		t.Error("CheckAllowed() should return true after one failure")
	}
	if remaining != 4 {
		t.Errorf("CheckAllowed() remaining = %d, want 4", remaining)
	}

	// More failures
	store.RecordFailure(ctx, mobile)
	store.RecordFailure(ctx, mobile)

	allowed, remaining, _ = store.CheckAllowed(ctx, mobile)
	if !allowed {
		t.Error("CheckAllowed() should return true after three failures")
	}
	if remaining != 2 {
		t.Errorf("CheckAllowed() remaining = %d, want 2", remaining)
	}
}

func TestStore_RecordFailure_TriggersLockout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 3, 15*time.Minute, 30*time.Minute) // Only 3 attempts
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mobile := "919823456789"

	// First two failures - no lockout
	store.RecordFailure(ctx, mobile)
	store.RecordFailure(ctx, mobile)

	// Third failure should trigger lockout
	lockedOut, lockedUntil := store.RecordFailure(ctx, mobile)
	if !lockedOut {
		t.Error("RecordFailure() should return lockedOut=true at max attempts")
	}
	if lockedUntil == nil {
		t.Error("RecordFailure() should return lockedUntil time")
	}
	if lockedUntil != nil && lockedUntil.Before(time.Now().Add(29*time.Minute)) {
		t.Error("lockedUntil should be at least 29 minutes in the future")
	}
}

func TestStore_CheckAllowed_WhenLocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 2, 15*time.Minute, 30*time.Minute) // Only 2 attempts
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mobile := "919834567890"

	// Trigger lockout
	store.RecordFailure(ctx, mobile)
	store.RecordFailure(ctx, mobile)

	// Check - should be locked
	allowed, remaining, lockedUntil := store.CheckAllowed(ctx, mobile)
	if allowed {
		t.Error("CheckAllowed() should return false when locked")
	}
	if remaining != -1 {
		t.Errorf("CheckAllowed() remaining = %d, want -1 when locked", remaining)
	}
	if lockedUntil == nil {
		t.Error("CheckAllowed() should return lockedUntil when locked")
	}
}

func TestStore_ClearOnSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 5, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mobile := "919845678901"

	// Record some failures
	store.RecordFailure(ctx, mobile)
	store.RecordFailure(ctx, mobile)

	// Clear on success
	if err := store.ClearOnSuccess(ctx, mobile); err != nil {
		t.Fatalf("ClearOnSuccess() error = %v", err)
	}

	// Should be back to full attempts
	allowed, remaining, _ := store.CheckAllowed(ctx, mobile)
	if !allowed {
		t.Error("CheckAllowed() should return true after clear")
	}
	if remaining != 5 {
		t.Errorf("CheckAllowed() remaining = %d, want 5 after clear", remaining)
	}
}

func TestStore_GetAttempt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 5, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mobile := "919856789012"

	// No record yet
	attempt, err := store.GetAttempt(ctx, mobile)
	if err != nil {
		t.Fatalf("GetAttempt() error = %v", err)
	}
	if attempt != nil {
		t.Error("GetAttempt() should return nil for unknown mobile")
	}

	// Record a failure
	store.RecordFailure(ctx, mobile)

	// Should have a record now
	attempt, err = store.GetAttempt(ctx, mobile)
	if err != nil {
		t.Fatalf("GetAttempt() error = %v", err)
	}
	if attempt == nil {
		t.Fatal("GetAttempt() should return attempt after failure")
	}
	if attempt.AttemptCount != 1 {
		t.Errorf("AttemptCount = %d, want 1", attempt.AttemptCount)
	}
	if attempt.Mobile != mobile {
		t.Errorf("Mobile = %s, want %s", attempt.Mobile, mobile)
	}
}

func TestStore_WindowExpiry_ResetsCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	// Very short window for testing
	store := New(db, 5, 1*time.Millisecond, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mobile := "919867890123"

	// Record some failures
	store.RecordFailure(ctx, mobile)
	store.RecordFailure(ctx, mobile)

	// Wait for window to expire
	time.Sleep(10 * time.Millisecond)

	// Should have full attempts again
	allowed, remaining, _ := store.CheckAllowed(ctx, mobile)
	if !allowed {
		t.Error("CheckAllowed() should return true after window expiry")
	}
	if remaining != 5 {
		t.Errorf("CheckAllowed() remaining = %d, want 5 after window expiry", remaining)
	}
}
