package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_ReturnsInOrder(t *testing.T) {
	gen := NewFixedIDGenerator("id-1", "id-2")

	assert.Equal(t, "id-1", gen.Generate())
	assert.Equal(t, "id-2", gen.Generate())
	// Last ID repeats once exhausted
	assert.Equal(t, "id-2", gen.Generate())
}

func TestFixedIDGenerator_Default(t *testing.T) {
	gen := NewFixedIDGenerator()
	assert.Equal(t, "00000000-0000-7000-8000-000000000000", gen.Generate())
}

func TestFixedIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedIDGenerator("same")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "same", gen.Generate())
			}
		}()
	}
	wg.Wait()
}
