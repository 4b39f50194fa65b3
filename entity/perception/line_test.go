package perception_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity/perception"
)

var reference = [3]uint8{95, 187, 203}

// frameWith 构造一帧BGRA图像，paint返回true的像素写为参考颜色
func frameWith(t *testing.T, w, h int, fov float64, paint func(x, y int) bool) entity.CameraFrame {
	t.Helper()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if paint(x, y) {
				pix[i], pix[i+1], pix[i+2] = reference[0], reference[1], reference[2]
			}
			pix[i+3] = 255
		}
	}
	f, err := entity.NewCameraFrame(w, h, 4, fov, pix)
	require.NoError(t, err)
	return f
}

func TestEstimateNoMatch(t *testing.T) {
	e := perception.NewLineEstimator(reference, 30)
	f := frameWith(t, 16, 8, 1.0, func(int, int) bool { return false })
	assert.False(t, e.Estimate(f).IsKnown())
}

func TestEstimateUniformMatch(t *testing.T) {
	e := perception.NewLineEstimator(reference, 30)
	for _, w := range []int{1, 7, 64, 128} {
		f := frameWith(t, w, 5, 0.87, func(int, int) bool { return true })
		v, ok := e.Estimate(f).Value()
		require.True(t, ok)
		want := (float64(w-1)/2/float64(w) - 0.5) * 0.87
		assert.InDelta(t, want, v, 1e-12, "width %d", w)
	}
}

func TestEstimateSingleColumn(t *testing.T) {
	e := perception.NewLineEstimator(reference, 30)
	f := frameWith(t, 100, 10, 1.0, func(x, _ int) bool { return x == 75 })
	v, ok := e.Estimate(f).Value()
	require.True(t, ok)
	assert.InDelta(t, 0.25, v, 1e-12)
}

func TestEstimateThreshold(t *testing.T) {
	e := perception.NewLineEstimator(reference, 30)
	pix := []byte{
		95 + 10, 187 + 10, 203 + 9, 255, // 距离29，匹配
		95 + 10, 187 - 10, 203 + 10, 255, // 距离30，不匹配
	}
	f, err := entity.NewCameraFrame(2, 1, 4, 1.0, pix)
	require.NoError(t, err)
	v, ok := e.Estimate(f).Value()
	require.True(t, ok)
	assert.InDelta(t, -0.5, v, 1e-12)
}
