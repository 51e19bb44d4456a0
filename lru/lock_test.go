package lru

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberLocks(t *testing.T) {
	t.Parallel()

	t.Run("releases mutexes once unlocked", func(t *testing.T) {
		t.Parallel()

		l := newNumberLocks()
		for n := range 100 {
			unlock := l.lock(n)
			unlock()
		}

		assert.Equal(t, 0, l.len())
	})

	t.Run("serializes holders of the same number", func(t *testing.T) {
		t.Parallel()

		l := newNumberLocks()
		var (
			wg      sync.WaitGroup
			counter int
		)
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := l.lock(7)
				counter++
				unlock()
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, counter)
		assert.Equal(t, 0, l.len())
	})
}
