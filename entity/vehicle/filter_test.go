package vehicle_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity/vehicle"
)

func TestFilterFirstCallUnknown(t *testing.T) {
	f := vehicle.NewSmoothingFilter(3)
	assert.False(t, f.Filter(entity.Known(0.3)).IsKnown())
	assert.Equal(t, []float64{0, 0, 0}, f.Window())
}

func TestFilterAfterReset(t *testing.T) {
	f := vehicle.NewSmoothingFilter(3)
	f.Filter(entity.Known(0.9))
	assert.False(t, f.Filter(entity.Unknown).IsKnown())

	v, ok := f.Filter(entity.Known(0.3)).Value()
	require.True(t, ok)
	assert.InDelta(t, 0.1, v, 1e-12)

	v, ok = f.Filter(entity.Known(0.6)).Value()
	require.True(t, ok)
	assert.InDelta(t, 0.3, v, 1e-12)

	v, ok = f.Filter(entity.Known(0.9)).Value()
	require.True(t, ok)
	assert.InDelta(t, 0.6, v, 1e-12)

	// 窗口已满，最旧样本移出
	v, ok = f.Filter(entity.Known(1.2)).Value()
	require.True(t, ok)
	assert.InDelta(t, 0.9, v, 1e-12)
	if diff := cmp.Diff([]float64{0.6, 0.9, 1.2}, f.Window(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterUnknownClearsWindow(t *testing.T) {
	f := vehicle.NewSmoothingFilter(4)
	f.Filter(entity.Unknown)
	for _, v := range []float64{1, 2, 3, 4} {
		f.Filter(entity.Known(v))
	}
	assert.False(t, f.Filter(entity.Unknown).IsKnown())
	assert.Equal(t, []float64{0, 0, 0, 0}, f.Window())
	v, _ := f.Filter(entity.Known(2)).Value()
	assert.InDelta(t, 0.5, v, 1e-12)
}
