package simulator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity/perception"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/simulator"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/input"
)

func quietConfig() config.Config {
	c := config.Default()
	c.Sim.LidarNoise = 0
	c.Sim.LidarDropout = 0
	return c
}

func straightScenario() *input.Scenario {
	return &input.Scenario{
		Name:      "straight",
		Line:      []input.Point{{X: 0, Y: 0}, {X: 200, Y: 0}},
		LineWidth: 0.3,
		Obstacles: []input.Obstacle{{X: 10, Y: 0, Radius: 1}},
	}
}

func TestCapabilities(t *testing.T) {
	c := quietConfig()
	d := simulator.New(input.DefaultScenario(), c)
	assert.Equal(t, entity.Capabilities{Camera: true, Lidar: true}, d.Capabilities())
	assert.NotNil(t, d.Camera())
	assert.NotNil(t, d.Lidar())

	c.Sim.DisableCamera = true
	c.Sim.DisableLidar = true
	d = simulator.New(input.DefaultScenario(), c)
	assert.Equal(t, entity.Capabilities{}, d.Capabilities())
	assert.Nil(t, d.Camera())
	assert.Nil(t, d.Lidar())
	assert.Equal(t, 10.0, d.BasicTimeStep())
}

func TestCameraSeesLineAhead(t *testing.T) {
	c := quietConfig()
	rc := config.NewRuntimeConfig(c)
	d := simulator.New(input.DefaultScenario(), c)
	frame := d.Camera().Frame()
	assert.Equal(t, simulator.DefaultCamera.Width*simulator.DefaultCamera.Height*4, len(frame.Pix))

	est := perception.NewLineEstimator(rc.ReferenceColor(), c.Perception.ColorThreshold)
	angle := est.Estimate(frame)
	require.True(t, angle.IsKnown())
	assert.InDelta(t, 0, angle.Or(1), 0.05)
}

func TestLidarSeesObstacle(t *testing.T) {
	c := quietConfig()
	d := simulator.New(input.DefaultScenario(), c)
	frame := d.Lidar().Frame()
	require.Equal(t, simulator.DefaultLidar.Resolution, frame.Resolution)

	// 障碍物在正前方约55米处，略偏左
	center := frame.Resolution / 2
	assert.InDelta(t, 55-math.Sqrt(0.75), frame.Ranges[center], 0.1)
	assert.Equal(t, entity.NoReturn, frame.Ranges[0])

	// 同一步内返回同一帧
	assert.Equal(t, frame.Ranges, d.Lidar().Frame().Ranges)

	det := perception.NewObstacleDetector(c.Perception.LidarHalfWindow, 60)
	reading := det.Detect(frame)
	require.True(t, reading.Detected())
	assert.InDelta(t, 0, reading.Bearing.Or(1), 0.05)
}

func TestStepCruiseAndBrake(t *testing.T) {
	c := quietConfig()
	d := simulator.New(straightScenario(), c)
	d.SetCruisingSpeed(20)
	for range 3000 {
		require.True(t, d.Step())
	}
	assert.InDelta(t, 20, d.CurrentSpeed(), 1)
	assert.Greater(t, d.Pose().X, 100.0)
	assert.InDelta(t, 0, d.Pose().Y, 1e-9)
	assert.Equal(t, 1, d.Collisions())

	d.SetBrakeIntensity(1)
	assert.Equal(t, 1.0, d.BrakeIntensity())
	for range 500 {
		d.Step()
	}
	assert.Equal(t, 0.0, d.CurrentSpeed())
}

func TestStepSteersRight(t *testing.T) {
	c := quietConfig()
	d := simulator.New(straightScenario(), c)
	d.SetCruisingSpeed(20)
	d.SetSteeringAngle(0.2)
	for range 200 {
		d.Step()
	}
	assert.Equal(t, 0.2, d.SteeringAngle())
	assert.Less(t, d.Pose().Heading, 0.0)
	assert.Less(t, d.Pose().Y, 0.0)
}

func TestStepStopsAtTotal(t *testing.T) {
	c := quietConfig()
	c.Control.Step.Total = 3
	d := simulator.New(straightScenario(), c)
	assert.True(t, d.Step())
	assert.True(t, d.Step())
	assert.True(t, d.Step())
	assert.False(t, d.Step())
}
