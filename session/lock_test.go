package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goStats "github.com/MrEthical07/goStats"
)

func TestLockExclusive(t *testing.T) {
	store, _, stats := newSessionStoreTest(t)
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "sid-1")
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}
	if _, err := store.Lock(ctx, "sid-1"); !errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("expected ErrLockNotAcquired, got %v", err)
	}
	if probeCount(stats, goStats.ProbeAcquireLock) != 1 || probeCount(stats, goStats.ProbeAcquireLockFailure) != 1 {
		t.Fatal("expected one success and one failure timing")
	}

	if err := unlock(ctx); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if err := unlock(ctx); !errors.Is(err, ErrLockNotHeld) {
		t.Fatalf("expected ErrLockNotHeld on second unlock, got %v", err)
	}
	if probeCount(stats, goStats.ProbeReleaseLock) != 2 {
		t.Fatal("expected both release attempts timed")
	}

	if _, err := store.Lock(ctx, "sid-1"); err != nil {
		t.Fatalf("relock after unlock failed: %v", err)
	}
}

func TestLockExpiredDoesNotReleaseNewOwner(t *testing.T) {
	store, mr, _ := newSessionStoreTest(t, WithLockTTL(time.Second))
	ctx := context.Background()

	stale, err := store.Lock(ctx, "sid-1")
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	mr.FastForward(2 * time.Second)

	fresh, err := store.Lock(ctx, "sid-1")
	if err != nil {
		t.Fatalf("lock after expiry failed: %v", err)
	}
	if err := stale(ctx); !errors.Is(err, ErrLockNotHeld) {
		t.Fatalf("expected stale unlock to fail, got %v", err)
	}
	if !mr.Exists(store.lockKey("sid-1")) {
		t.Fatal("stale unlock must not release the new owner")
	}
	if err := fresh(ctx); err != nil {
		t.Fatalf("fresh unlock failed: %v", err)
	}
}

func TestLockConcurrentSingleWinner(t *testing.T) {
	store, _, _ := newSessionStoreTest(t)
	ctx := context.Background()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Lock(ctx, "contended"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one lock winner, got %d", wins.Load())
	}
}

func TestNonStickyLifecycle(t *testing.T) {
	store, mr, stats := newSessionStoreTest(t, WithNonSticky(true))
	ctx := context.Background()
	sess := testSession()

	if !store.NonSticky() {
		t.Fatal("expected non-sticky store")
	}
	if err := store.Backup(ctx, sess, time.Hour); err != nil {
		t.Fatalf("seed backup failed: %v", err)
	}

	if _, err := store.Load(ctx, sess.ID); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !mr.Exists(store.lockKey(sess.ID)) {
		t.Fatal("expected load to hold the session lock")
	}
	if _, err := store.Load(ctx, sess.ID); !errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("expected concurrent load to be rejected, got %v", err)
	}
	if probeCount(stats, goStats.ProbeNonStickyAfterLoadFromCache) != 1 {
		t.Fatal("expected after-load housekeeping timed")
	}

	if err := store.Backup(ctx, sess, time.Hour); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if mr.Exists(store.lockKey(sess.ID)) {
		t.Fatal("expected backup to release the session lock")
	}
	if probeCount(stats, goStats.ProbeNonStickyAfterBackup) != 2 {
		t.Fatal("expected after-backup housekeeping timed for each backup")
	}

	if _, err := store.Load(ctx, sess.ID); err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	store.Release(ctx, sess.ID)
	if mr.Exists(store.lockKey(sess.ID)) {
		t.Fatal("expected release to drop the session lock")
	}
	if probeCount(stats, goStats.ProbeNonStickyOnBackupWithoutLoadedSession) != 1 {
		t.Fatal("expected release housekeeping timed")
	}

	if _, err := store.Load(ctx, sess.ID); err != nil {
		t.Fatalf("third load failed: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if mr.Exists(store.lockKey(sess.ID)) {
		t.Fatal("expected delete to release the session lock")
	}
	if probeCount(stats, goStats.ProbeNonStickyAfterDeleteFromCache) != 1 {
		t.Fatal("expected after-delete housekeeping timed")
	}

	store.TrackRequest(RequestOutcome{Session: sess, SessionAccessed: true, AttributesAccessed: true})
	if stats.Value(goStats.CounterNonStickySessionsReadOnlyRequest) != 1 {
		t.Fatal("expected read-only request counted in non-sticky mode")
	}
}

func TestReleaseStickyIsNoop(t *testing.T) {
	store, _, stats := newSessionStoreTest(t)
	store.Release(context.Background(), "sid-1")
	if probeCount(stats, goStats.ProbeNonStickyOnBackupWithoutLoadedSession) != 0 {
		t.Fatal("expected no housekeeping in sticky mode")
	}
}

func TestNonStickyFailedLoadReleasesLock(t *testing.T) {
	store, mr, stats := newSessionStoreTest(t, WithNonSticky(true))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("load %d: expected ErrSessionNotFound, got %v", i, err)
		}
		if mr.Exists(store.lockKey("missing")) {
			t.Fatalf("load %d: expected miss to release the session lock", i)
		}
	}

	if err := mr.Set(store.key("bad"), "\x02\xff"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.Load(ctx, "bad"); !errors.Is(err, ErrSessionCorrupt) {
		t.Fatalf("expected ErrSessionCorrupt, got %v", err)
	}
	if mr.Exists(store.lockKey("bad")) {
		t.Fatal("expected decode failure to release the session lock")
	}

	if got := probeCount(stats, goStats.ProbeNonStickyOnBackupWithoutLoadedSession); got != 3 {
		t.Fatalf("expected 3 releases timed, got %d", got)
	}
	if got := probeCount(stats, goStats.ProbeAcquireLock); got != 3 {
		t.Fatalf("expected every load to acquire the lock, got %d", got)
	}
}
