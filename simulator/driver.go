package simulator

import (
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/input"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/randengine"
)

const (
	wheelBase = 2.5 // 轴距（米）
	kmh       = 3.6 // km/h与m/s的换算
)

// Driver 内置仿真器
// 功能：以运动学自行车模型模拟一辆车，提供合成相机与激光雷达
// 说明：只由控制回路协程访问，不是并发安全的
type Driver struct {
	scenario *input.Scenario
	dt       float64 // 步长（秒）
	steps    int64   // 已推进的步数
	maxSteps int64   // 最多推进的步数，<=0表示不限

	pose     input.Pose
	speed    float64 // 实际速度（米/秒）
	steering float64 // 实际转角（弧度）

	cmdSteering float64 // 转角指令
	cmdSpeed    float64 // 巡航速度指令（km/h）
	cmdBrake    float64 // 制动强度指令

	cruise *cruise
	camera *camera // 相机缺失时为nil
	lidar  *lidar  // 激光雷达缺失时为nil

	collisions int
	inside     map[int]bool // 当前与车辆重叠的障碍物
}

// New 创建内置仿真器
// 参数：scenario-场景，c-全部配置
// 返回：仿真器
func New(scenario *input.Scenario, c config.Config) *Driver {
	d := &Driver{
		scenario: scenario,
		dt:       c.Control.Step.Interval,
		maxSteps: int64(c.Control.Step.Total),
		pose:     scenario.Start,
		cruise:   newCruise(),
		inside:   make(map[int]bool),
	}
	if !c.Sim.DisableCamera {
		d.camera = &camera{spec: DefaultCamera, d: d, cacheStep: -1}
		for i := range d.camera.color {
			d.camera.color[i] = uint8(c.Perception.ReferenceColor[i])
		}
	}
	if !c.Sim.DisableLidar {
		spec := DefaultLidar
		spec.Noise = c.Sim.LidarNoise
		spec.Dropout = c.Sim.LidarDropout
		d.lidar = &lidar{spec: spec, rng: randengine.New(c.Sim.Seed), d: d, cacheStep: -1}
	}
	return d
}

// Capabilities 传感器能力
func (d *Driver) Capabilities() entity.Capabilities {
	return entity.Capabilities{Camera: d.camera != nil, Lidar: d.lidar != nil}
}

func (d *Driver) Camera() entity.ICamera {
	if d.camera == nil {
		return nil
	}
	return d.camera
}

func (d *Driver) Lidar() entity.ILidar {
	if d.lidar == nil {
		return nil
	}
	return d.lidar
}

func (d *Driver) SetSteeringAngle(angle float64)      { d.cmdSteering = angle }
func (d *Driver) SetCruisingSpeed(speed float64)      { d.cmdSpeed = speed }
func (d *Driver) SetBrakeIntensity(intensity float64) { d.cmdBrake = lo.Clamp(intensity, 0, 1) }

// BasicTimeStep 仿真基础步长（毫秒）
func (d *Driver) BasicTimeStep() float64 {
	return d.dt * 1000
}

func (d *Driver) SteeringAngle() float64  { return d.steering }
func (d *Driver) CurrentSpeed() float64   { return d.speed * kmh }
func (d *Driver) BrakeIntensity() float64 { return d.cmdBrake }

// Pose 当前位姿
func (d *Driver) Pose() input.Pose {
	return d.pose
}

// Collisions 与障碍物发生碰撞的次数
func (d *Driver) Collisions() int {
	return d.collisions
}

// Step 推进仿真一步
// 功能：按执行器指令更新速度、转角与位姿
// 返回：仿真是否继续
// 算法说明：
// 1. 转角直接取指令值（指令在上游已经过变化量限制）
// 2. 巡航PID加制动得到加速度，速度不小于0
// 3. 运动学自行车模型：航向变化率 = v / 轴距 * tan(转角)，正转角向右
// 4. 检查车辆与障碍物的碰撞
func (d *Driver) Step() bool {
	if d.maxSteps > 0 && d.steps >= d.maxSteps {
		return false
	}
	d.steps++
	d.steering = d.cmdSteering
	a := d.cruise.accel(d.cmdSpeed/kmh, d.speed, d.cmdBrake, time.Duration(d.dt*float64(time.Second)))
	d.speed = math.Max(0, d.speed+a*d.dt)
	d.pose.Heading -= d.speed / wheelBase * math.Tan(d.steering) * d.dt
	d.pose.Heading = math.Remainder(d.pose.Heading, 2*math.Pi)
	d.pose.X += d.speed * math.Cos(d.pose.Heading) * d.dt
	d.pose.Y += d.speed * math.Sin(d.pose.Heading) * d.dt
	d.checkCollision()
	return true
}

// checkCollision 进入障碍物时计数并告警
func (d *Driver) checkCollision() {
	for i, o := range d.scenario.Obstacles {
		hit := math.Hypot(d.pose.X-o.X, d.pose.Y-o.Y) < o.Radius+1
		if hit && !d.inside[i] {
			d.collisions++
			log.Warnf("collision with obstacle %d at (%.1f, %.1f)", i, o.X, o.Y)
		}
		d.inside[i] = hit
	}
}
