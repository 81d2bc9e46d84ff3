package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceIDGenerator_Sequence(t *testing.T) {
	gen := NewSequenceIDGenerator()

	assert.Equal(t, "snap-0001", gen.Generate())
	assert.Equal(t, "snap-0002", gen.Generate())
	assert.Equal(t, "snap-0003", gen.Generate())
}

func TestSequenceIDGenerator_Reset(t *testing.T) {
	gen := NewSequenceIDGenerator()
	gen.Generate()
	gen.Generate()

	gen.Reset()

	assert.Equal(t, "snap-0001", gen.Generate())
}

func TestSequenceIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequenceIDGenerator()
	const goroutines = 50
	const callsPerGoroutine = 20

	var wg sync.WaitGroup
	ids := make(chan string, goroutines*callsPerGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				ids <- gen.Generate()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*callsPerGoroutine)
}

func TestFixedIDGenerator(t *testing.T) {
	assert.Equal(t, "abc", NewFixedIDGenerator("abc").Generate())
	assert.Equal(t, "abc", NewFixedIDGenerator("abc").Generate())
	assert.Equal(t, "snap-fixed", NewFixedIDGenerator("").Generate())
}
