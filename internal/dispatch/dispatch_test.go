package dispatch

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinishBarrier(t *testing.T) {
	d := New(4)
	defer d.Close()

	var n atomic.Int64
	for range 100 {
		d.Dispatch(func() { n.Add(1) })
	}
	d.Finish()
	assert.Equal(t, int64(100), n.Load())
}

func TestEpochReuse(t *testing.T) {
	d := New(2)
	defer d.Close()

	var n atomic.Int64
	for epoch := int64(1); epoch <= 5; epoch++ {
		for range 10 {
			d.Dispatch(func() { n.Add(1) })
		}
		d.Finish()
		assert.Equal(t, epoch*10, n.Load(), "epoch %d", epoch)
	}
}

func TestDefaultWidth(t *testing.T) {
	d := New(0)
	defer d.Close()
	assert.Greater(t, d.Workers(), 0)
}

func TestCloseDrains(t *testing.T) {
	d := New(4)
	var n atomic.Int64
	for range 50 {
		d.Dispatch(func() { n.Add(1) })
	}
	d.Close()
	assert.Equal(t, int64(50), n.Load())
}
