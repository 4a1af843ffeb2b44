package economy

import (
	"context"
	"sync"
	"time"
)

// UserGuard is a per-user in-process mutex. Reward grants, pack
// openings and session completions take the guard first so two requests
// for the same user never interleave inside one process; the row locks
// in TransactionManager cover cross-process races.
type UserGuard struct {
	locks        sync.Map
	lockDuration time.Duration
}

func NewUserGuard() *UserGuard {
	return &UserGuard{
		lockDuration: 30 * time.Second,
	}
}

// TryLock acquires the guard for a user. Returns false when the user
// already holds an in-flight operation.
func (g *UserGuard) TryLock(userID string) bool {
	expiry := time.Now().Add(g.lockDuration)
	_, loaded := g.locks.LoadOrStore(userID, expiry)
	return !loaded
}

func (g *UserGuard) Release(userID string) {
	g.locks.Delete(userID)
}

func (g *UserGuard) cleanupExpired() {
	now := time.Now()
	g.locks.Range(func(key, value interface{}) bool {
		if now.After(value.(time.Time)) {
			g.locks.Delete(key)
		}
		return true
	})
}

// StartCleanupRoutine drops guards abandoned by crashed handlers so a
// stuck lock never wedges a user for longer than the lock duration.
func (g *UserGuard) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.cleanupExpired()
			}
		}
	}()
}
