package vehicle_test

import (
	"math"
	"sync"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/clock"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
)

type fakeCamera struct{ frame entity.CameraFrame }

func (c *fakeCamera) Frame() entity.CameraFrame { return c.frame }

type fakeLidar struct{ frame entity.RangeFrame }

func (l *fakeLidar) Frame() entity.RangeFrame { return l.frame }

// fakeDriver 记录执行器指令的仿真器
type fakeDriver struct {
	camera *fakeCamera
	lidar  *fakeLidar

	steering, speed, brake float64
	steeringCalls          int

	brakeOverride func(cmd float64) float64 // 非nil时改写报告的制动强度
}

func (d *fakeDriver) SetSteeringAngle(angle float64) {
	d.steering = angle
	d.steeringCalls++
}
func (d *fakeDriver) SetCruisingSpeed(speed float64)      { d.speed = speed }
func (d *fakeDriver) SetBrakeIntensity(intensity float64) { d.brake = intensity }
func (d *fakeDriver) Capabilities() entity.Capabilities {
	return entity.Capabilities{Camera: d.camera != nil, Lidar: d.lidar != nil}
}
func (d *fakeDriver) Camera() entity.ICamera {
	if d.camera == nil {
		return nil
	}
	return d.camera
}
func (d *fakeDriver) Lidar() entity.ILidar {
	if d.lidar == nil {
		return nil
	}
	return d.lidar
}
func (d *fakeDriver) Step() bool             { return true }
func (d *fakeDriver) BasicTimeStep() float64 { return 10 }
func (d *fakeDriver) SteeringAngle() float64 { return d.steering }
func (d *fakeDriver) CurrentSpeed() float64  { return d.speed }
func (d *fakeDriver) BrakeIntensity() float64 {
	if d.brakeOverride != nil {
		return d.brakeOverride(d.brake)
	}
	return d.brake
}

type published struct {
	topic, key string
	payload    []byte
}

type fakeTelemetry struct {
	mtx     sync.Mutex
	records []published
}

func (t *fakeTelemetry) Publish(topic, key string, payload []byte) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.records = append(t.records, published{topic, key, payload})
}

func (t *fakeTelemetry) topics() []string {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	out := make([]string, len(t.records))
	for i, r := range t.records {
		out[i] = r.topic
	}
	return out
}

type fakeContext struct {
	clock     *clock.Clock
	rc        *config.RuntimeConfig
	driver    *fakeDriver
	telemetry *fakeTelemetry
}

func (c *fakeContext) Clock() *clock.Clock                  { return c.clock }
func (c *fakeContext) RuntimeConfig() *config.RuntimeConfig { return c.rc }
func (c *fakeContext) Driver() entity.IDriver               { return c.driver }
func (c *fakeContext) Telemetry() entity.ITelemetry         { return c.telemetry }

// testConfig 每步都执行自动转向的配置
func testConfig() config.Config {
	c := config.Default()
	c.Control.AutoSteerAfter = 0
	c.Control.SensorPeriod = 10
	return c
}

func newFakeContext(c config.Config, d *fakeDriver) *fakeContext {
	return &fakeContext{
		clock:     clock.New(c.Control.Step),
		rc:        config.NewRuntimeConfig(c),
		driver:    d,
		telemetry: &fakeTelemetry{},
	}
}

// blankCamera 没有车道线的相机帧
func blankCamera() *fakeCamera {
	w, h := 32, 4
	return &fakeCamera{frame: entity.CameraFrame{Width: w, Height: h, Channels: 4, FOV: 1, Pix: make([]byte, w*h*4)}}
}

// lineCamera 在第col列画车道线的相机帧
func lineCamera(col int) *fakeCamera {
	cam := blankCamera()
	f := cam.frame
	for y := 0; y < f.Height; y++ {
		i := (y*f.Width + col) * 4
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = 95, 187, 203
	}
	return cam
}

// clearLidar 前方无障碍物的扫描
func clearLidar() *fakeLidar {
	ranges := make([]float64, 180)
	for i := range ranges {
		ranges[i] = math.Inf(1)
	}
	return &fakeLidar{frame: entity.NewRangeFrame(math.Pi, 80, ranges)}
}

// obstacleLidar 第i个采样距离为r的扫描
func obstacleLidar(i int, r float64) *fakeLidar {
	l := clearLidar()
	l.frame.Ranges[i] = r
	return l
}
