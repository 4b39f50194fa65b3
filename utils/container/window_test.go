package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/container"
)

func TestWindow(t *testing.T) {
	w := container.NewWindow[float64](3)
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, []float64{0, 0, 0}, w.Values())

	// ^, 0, 0, 1
	w.Push(1)
	assert.Equal(t, []float64{0, 0, 1}, w.Values())
	// ^, 1, 2, 3
	w.Push(2)
	w.Push(3)
	assert.Equal(t, []float64{1, 2, 3}, w.Values())
	// ^, 2, 3, 4
	w.Push(4)
	assert.Equal(t, []float64{2, 3, 4}, w.Values())

	w.Fill(0)
	assert.Equal(t, []float64{0, 0, 0}, w.Values())
}

func TestWindowMinSize(t *testing.T) {
	w := container.NewWindow[int](0)
	assert.Equal(t, 1, w.Len())
	w.Push(5)
	w.Push(6)
	assert.Equal(t, []int{6}, w.Values())
}
