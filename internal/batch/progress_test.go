package batch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Snapshot(t *testing.T) {
	p := NewProgress(4)
	p.Add(true)
	p.Add(false)
	p.Add(false)

	snap := p.Snapshot()
	assert.Equal(t, 4, snap.Total)
	assert.Equal(t, 3, snap.Processed)
	assert.Equal(t, 1, snap.External)
	assert.InDelta(t, 75.0, snap.PercentComplete, 1e-9)
	assert.GreaterOrEqual(t, snap.ItemsPerSecond, 0.0)
}

func TestProgress_EmptyBatch(t *testing.T) {
	snap := NewProgress(0).Snapshot()
	assert.Zero(t, snap.PercentComplete)
	assert.Zero(t, snap.Processed)
}

func TestProgress_ConcurrentReads(t *testing.T) {
	p := NewProgress(100)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = p.Snapshot()
			}
		}()
	}
	for i := 0; i < 100; i++ {
		p.Add(i%2 == 0)
	}
	wg.Wait()

	snap := p.Snapshot()
	assert.Equal(t, 100, snap.Processed)
	assert.Equal(t, 50, snap.External)
	assert.InDelta(t, 100.0, snap.PercentComplete, 1e-9)
}
