package entity_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
)

func TestAngleJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A entity.Angle `json:"a"`
		B entity.Angle `json:"b"`
	}{entity.Known(0.25), entity.Unknown})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0.25,"b":null}`, string(b))

	var a entity.Angle
	require.NoError(t, json.Unmarshal([]byte("null"), &a))
	assert.False(t, a.IsKnown())
	require.NoError(t, json.Unmarshal([]byte("99999.99"), &a))
	assert.False(t, a.IsKnown())
	require.NoError(t, json.Unmarshal([]byte("-0.5"), &a))
	assert.Equal(t, entity.Known(-0.5), a)
}

func TestAngleSentinel(t *testing.T) {
	assert.Equal(t, entity.Unknown, entity.FromSentinel(entity.UnknownSentinel))
	assert.Equal(t, "UNKNOWN", entity.Unknown.String())
	assert.Equal(t, 3.0, entity.Unknown.Or(3))
	v, ok := entity.Known(2).Value()
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestNewCameraFrame(t *testing.T) {
	_, err := entity.NewCameraFrame(0, 1, 3, 1, nil)
	assert.Error(t, err)
	_, err = entity.NewCameraFrame(1, 1, 2, 1, make([]byte, 2))
	assert.Error(t, err)
	_, err = entity.NewCameraFrame(2, 2, 4, 1, make([]byte, 15))
	assert.Error(t, err)

	pix := []byte{1, 2, 3, 0, 4, 5, 6, 0}
	f, err := entity.NewCameraFrame(2, 1, 4, 1, pix)
	require.NoError(t, err)
	assert.Equal(t, [3]byte{4, 5, 6}, f.At(1, 0))
}

func TestNewRangeFrame(t *testing.T) {
	raw := []float64{1, math.NaN(), math.Inf(1), math.Inf(-1)}
	f := entity.NewRangeFrame(math.Pi, 80, raw)
	assert.Equal(t, 4, f.Resolution)
	assert.Equal(t, []float64{1, entity.NoReturn, entity.NoReturn, entity.NoReturn}, f.Ranges)
	assert.True(t, math.IsNaN(raw[1]))
}

func TestParseIndicator(t *testing.T) {
	for in, want := range map[string]entity.Indicator{
		"off": entity.IndicatorOff, "Right": entity.IndicatorRight, " LEFT ": entity.IndicatorLeft,
	} {
		got, err := entity.ParseIndicator(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := entity.ParseIndicator("hazard")
	assert.Error(t, err)
	assert.Equal(t, "Left", entity.IndicatorLeft.String())
}
