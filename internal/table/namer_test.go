package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamer_NewNamer(t *testing.T) {
	n := NewNamer()
	assert.Equal(t, int64(0), n.Current(), "new namer should start at 0")
}

func TestNamer_Derive(t *testing.T) {
	n := NewNamer()

	assert.Equal(t, "Movie0", n.Derive("Movie"))
	assert.Equal(t, "Movie1", n.Derive("Movie"))
	assert.Equal(t, "Studio2", n.Derive("Studio"))
}

func TestNamer_ThreadSafe(t *testing.T) {
	n := NewNamer()
	const goroutines = 100
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	names := make(chan string, goroutines*callsPerGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				names <- n.Derive("T")
			}
		}()
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool)
	for name := range names {
		assert.False(t, seen[name], "name %s generated twice", name)
		seen[name] = true
	}
	assert.Len(t, seen, goroutines*callsPerGoroutine)
	assert.Equal(t, int64(goroutines*callsPerGoroutine), n.Current())
}
