package vehicle_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity/vehicle"
)

func newArbiter() *vehicle.Arbiter {
	return vehicle.NewArbiter(vehicle.NewLineFollowPID(defaultPID()), 0.4)
}

func obstacleAt(bearing, distance float64) entity.ObstacleReading {
	return entity.ObstacleReading{Bearing: entity.Known(bearing), Distance: distance}
}

var noObstacle = entity.ObstacleReading{Bearing: entity.Unknown}

// 检测到障碍物且车道线缺失：只使用避障候选
func TestDecideObstacleWithoutLine(t *testing.T) {
	a := newArbiter()
	a.PID.Apply(0.1) // 清除初始复位标志
	for _, cur := range []float64{0, 0.2, -0.3} {
		d := a.Decide(vehicle.ArbiterInput{
			Current:   cur,
			Obstacle:  obstacleAt(0.02, 2.0),
			Line:      entity.Unknown,
			Avoidance: true,
		})
		assert.Equal(t, vehicle.BranchObstacle, d.Branch)
		assert.True(t, d.SteeringSet)
		assert.InDelta(t, cur-0.115, d.Steering, 1e-12)
		assert.True(t, d.BrakeSet)
		assert.Zero(t, d.Brake)
		assert.True(t, d.PIDReset)
		assert.True(t, a.PID.NeedsReset())
	}
}

func TestDecideObstacleBranches(t *testing.T) {
	a := newArbiter()
	cases := []struct {
		bearing, distance, want float64
	}{
		{0.02, 2, 0.5 + (0.02-0.25)/2},
		{0.1, 4, 0.5 + (0.1+0.25)/4},
		{-0.03, 1, 0.5 + (-0.03+0.25)/1},
		{0, 5, 0.5 + 0.25/5},
		{-0.2, 3, 0.5}, // 两个条件都不满足，保持当前转角
	}
	for _, c := range cases {
		d := a.Decide(vehicle.ArbiterInput{Current: 0.5, Obstacle: obstacleAt(c.bearing, c.distance), Line: entity.Unknown, Avoidance: true})
		assert.InDelta(t, c.want, d.Steering, 1e-12, "bearing %v", c.bearing)
	}
}

func TestDecideObstacleZeroDistance(t *testing.T) {
	a := newArbiter()
	d := a.Decide(vehicle.ArbiterInput{Obstacle: obstacleAt(0.1, 0), Line: entity.Unknown, Avoidance: true})
	assert.True(t, math.IsInf(d.Steering, 1))
	l := defaultLimiter()
	assert.InDelta(t, 0.1, l.Limit(d.Steering, 0), 1e-12)
}

func TestDecideObstacleMergeWithLine(t *testing.T) {
	// 同为正：取大
	a := newArbiter()
	d := a.Decide(vehicle.ArbiterInput{Obstacle: obstacleAt(0.1, 10), Line: entity.Known(0.4), Avoidance: true})
	obstacle := (0.1 + 0.25) / 10
	line := 0.25*0.4 + 0.006*0.4
	require.Greater(t, line, obstacle)
	assert.InDelta(t, line, d.Steering, 1e-12)
	assert.False(t, d.PIDReset)

	// 同为负：取小
	a = newArbiter()
	d = a.Decide(vehicle.ArbiterInput{Current: -0.3, Obstacle: obstacleAt(0.1, 10), Line: entity.Known(-0.4), Avoidance: true})
	obstacle = -0.3 + (0.1+0.25)/10
	line = 0.25*-0.4 + 0.006*-0.4
	require.Less(t, obstacle, line)
	assert.InDelta(t, obstacle, d.Steering, 1e-12)

	// 异号：保留避障候选
	a = newArbiter()
	d = a.Decide(vehicle.ArbiterInput{Obstacle: obstacleAt(0.1, 10), Line: entity.Known(-0.4), Avoidance: true})
	assert.InDelta(t, (0.1+0.25)/10, d.Steering, 1e-12)
}

// 无障碍物，车道线稳定为0.1：输出收敛到Kp*0.1+Ki*30
func TestDecideLineConverges(t *testing.T) {
	a := newArbiter()
	var d vehicle.Decision
	for i := 0; i < 5; i++ {
		d = a.Decide(vehicle.ArbiterInput{Obstacle: noObstacle, Line: entity.Known(0.1), Avoidance: true})
		assert.Equal(t, vehicle.BranchLine, d.Branch)
		assert.True(t, d.BrakeSet)
		assert.Zero(t, d.Brake)
	}
	assert.InDelta(t, 0.5, a.PID.Integral(), 1e-9)
	for i := 0; i < 1000; i++ {
		d = a.Decide(vehicle.ArbiterInput{Obstacle: noObstacle, Line: entity.Known(0.1), Avoidance: true})
	}
	assert.InDelta(t, 0.205, d.Steering, 0.001)
}

// 无障碍物且丢失车道线：制动0.4，转角不变，标记PID复位
func TestDecideLostLine(t *testing.T) {
	a := newArbiter()
	a.PID.Apply(0.1)
	d := a.Decide(vehicle.ArbiterInput{Current: 0.2, Obstacle: noObstacle, Line: entity.Unknown, Avoidance: true})
	assert.Equal(t, vehicle.BranchLost, d.Branch)
	assert.False(t, d.SteeringSet)
	assert.True(t, d.BrakeSet)
	assert.Equal(t, 0.4, d.Brake)
	assert.True(t, d.PIDReset)
	assert.True(t, a.PID.NeedsReset())
}

func TestDecideAvoidanceDisabled(t *testing.T) {
	a := newArbiter()
	d := a.Decide(vehicle.ArbiterInput{Current: 0.2, Obstacle: obstacleAt(0.02, 2), Line: entity.Known(0.1), Avoidance: false})
	assert.Equal(t, vehicle.BranchManual, d.Branch)
	assert.False(t, d.SteeringSet)
	assert.False(t, d.BrakeSet)
	assert.True(t, a.PID.NeedsReset()) // PID未被调用
}

func TestDecisionMerge(t *testing.T) {
	d := vehicle.Decision{Steering: 0.1}
	d.Merge(0.3)
	assert.Equal(t, 0.3, d.Steering)
	d = vehicle.Decision{Steering: -0.1}
	d.Merge(-0.3)
	assert.Equal(t, -0.3, d.Steering)
	d = vehicle.Decision{Steering: 0}
	d.Merge(0.3)
	assert.Equal(t, 0.0, d.Steering)
}
