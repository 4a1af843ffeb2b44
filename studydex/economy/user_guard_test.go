package economy

import (
	"testing"
	"time"
)

func TestUserGuard(t *testing.T) {
	g := NewUserGuard()

	if !g.TryLock("u1") {
		t.Fatal("first TryLock should succeed")
	}
	if g.TryLock("u1") {
		t.Error("second TryLock for the same user should fail")
	}
	if !g.TryLock("u2") {
		t.Error("a different user should not be blocked")
	}

	g.Release("u1")
	if !g.TryLock("u1") {
		t.Error("TryLock after Release should succeed")
	}
}

func TestUserGuardCleanup(t *testing.T) {
	g := NewUserGuard()
	g.lockDuration = -time.Second // every lock is born expired

	if !g.TryLock("u1") {
		t.Fatal("first TryLock should succeed")
	}
	g.cleanupExpired()
	if !g.TryLock("u1") {
		t.Error("TryLock after cleanup of an expired lock should succeed")
	}
}
