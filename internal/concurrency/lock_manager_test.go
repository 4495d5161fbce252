package concurrency

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockManager_SameKeySerializes(t *testing.T) {
	lm := NewLockManager()

	const goroutines = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lm.WithLock("quest-1", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestLockManager_DifferentKeysIndependent(t *testing.T) {
	lm := NewLockManager()

	// Holding one key must not block another.
	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = lm.WithLock("quest-1", func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	done := make(chan struct{})
	go func() {
		_ = lm.WithLock("quest-2", func() error { return nil })
		close(done)
	}()

	<-done
	close(release)
}

func TestLockManager_ReturnsFnError(t *testing.T) {
	lm := NewLockManager()

	boom := errors.New("boom")
	err := lm.WithLock("quest-1", func() error { return boom })
	require.ErrorIs(t, err, boom)

	// The lock is released after an error.
	err = lm.WithLock("quest-1", func() error { return nil })
	assert.NoError(t, err)
}

func TestLockManager_GetLockIsStable(t *testing.T) {
	lm := NewLockManager()
	assert.Same(t, lm.GetLock("a"), lm.GetLock("a"))
	assert.NotSame(t, lm.GetLock("a"), lm.GetLock("b"))
}
