package vehicle

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity/perception"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/telemetry"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
)

var _ entity.IVehicleManager = (*VehicleManager)(nil)

// VehicleManager 车辆控制管理器
// 功能：每步执行一次感知-控制回路，并对外提供远程控制服务
// 说明：平滑滤波器与PID只由控制回路协程访问，远程控制通过State提交指令
type VehicleManager struct {
	ctx entity.ITaskContext

	caps       entity.Capabilities
	mode       config.Mode
	avoidance  bool
	steerAfter int32
	steerEvery int32
	startSpeed float64

	state   *State
	limiter Limiter

	line     perception.LineEstimator
	obstacle perception.ObstacleDetector
	filter   *SmoothingFilter
	pid      *LineFollowPID
	arbiter  *Arbiter
}

// NewManager 创建车辆控制管理器
// 功能：根据运行时配置创建感知、滤波、PID、仲裁与限幅组件
// 参数：ctx-任务上下文
// 返回：新创建的管理器
func NewManager(ctx entity.ITaskContext) *VehicleManager {
	rc := ctx.RuntimeConfig()
	c := rc.All
	limiter := NewLimiter(c.Vehicle)
	pid := NewLineFollowPID(c.PID)
	m := &VehicleManager{
		ctx:        ctx,
		mode:       rc.C.Mode,
		avoidance:  rc.C.CollisionAvoidance,
		steerAfter: rc.C.AutoSteerAfter,
		startSpeed: c.Vehicle.StartSpeed,
		state:      NewState(limiter, rc.InitialSpeed()),
		limiter:    limiter,
		line:       perception.NewLineEstimator(rc.ReferenceColor(), c.Perception.ColorThreshold),
		obstacle:   perception.NewObstacleDetector(c.Perception.LidarHalfWindow, c.Perception.LidarThreshold),
		filter:     NewSmoothingFilter(c.Smoothing.Size),
		pid:        pid,
		arbiter:    NewArbiter(pid, c.Vehicle.LostLineBrake),
		steerEvery: 1,
	}
	return m
}

// Init 初始化
// 功能：记录启动时的传感器能力，计算自动转向间隔
// 参数：caps-仿真器报告的传感器能力
// 说明：缺失的传感器在整个运行期间按永久缺失处理，不会导致崩溃
func (m *VehicleManager) Init(caps entity.Capabilities) {
	m.caps = caps
	m.steerEvery = m.ctx.RuntimeConfig().SteerEvery(m.ctx.Driver().BasicTimeStep())
	if !caps.Camera {
		log.Warn("camera unavailable, line angle is permanently UNKNOWN")
	}
	if !caps.Lidar {
		log.Warn("lidar unavailable, obstacle bearing is permanently UNKNOWN")
	}
	log.Infof("vehicle init: mode=%v %v steer_every=%d", m.mode, caps, m.steerEvery)
}

// State 共享状态句柄
func (m *VehicleManager) State() *State {
	return m.state
}

// Prepare 准备阶段
// 功能：应用上一步以来提交的全部操作员指令
func (m *VehicleManager) Prepare() {
	m.state.applyCommands()
}

// shouldSteer 本步是否执行自动转向
func (m *VehicleManager) shouldSteer(step int32) bool {
	return m.mode == config.ModeAuto && step > m.steerAfter && step%m.steerEvery == 0
}

// Update 更新阶段
// 功能：执行一次完整的感知-控制回路
// 参数：step-当前步数
// 算法说明：
// 1. 按调度执行自动转向：感知、平滑、障碍物检测、仲裁
// 2. 转角经限幅器后与速度、制动一起下发到执行器
// 3. 检测到障碍物时发布车辆传感器记录
// 4. 按配置发布原始传感器数据
func (m *VehicleManager) Update(step int32) {
	driver := m.ctx.Driver()
	sampled := m.shouldSteer(step)

	var (
		line     = entity.Unknown
		obstacle = entity.ObstacleReading{Bearing: entity.Unknown}
		decision Decision
	)
	if sampled {
		line, obstacle = m.sense(driver)
		decision = m.arbiter.Decide(ArbiterInput{
			Current:   m.state.Snapshot().SteeringAngle,
			Obstacle:  obstacle,
			Line:      line,
			Avoidance: m.avoidance,
		})
	}

	snap := m.state.update(func(s *Snapshot) {
		s.Step = step
		if decision.BrakeSet {
			s.BrakeIntensity = m.limiter.ClampBrake(decision.Brake)
		}
		switch {
		case decision.SteeringSet:
			s.TargetSteering = decision.Steering
		case decision.Branch == BranchLost:
			s.TargetSteering = s.SteeringAngle
		}
		s.SteeringAngle = m.limiter.Limit(s.TargetSteering, s.SteeringAngle)
		// ±Inf之类的期望值只保留其方向
		if math.IsNaN(s.TargetSteering) {
			s.TargetSteering = s.SteeringAngle
		}
		s.TargetSteering = m.limiter.ClampAngle(s.TargetSteering)
	})

	driver.SetBrakeIntensity(snap.BrakeIntensity)
	driver.SetCruisingSpeed(snap.Speed)
	driver.SetSteeringAngle(snap.SteeringAngle)
	m.state.update(func(s *Snapshot) {
		s.ActualSpeed = driver.CurrentSpeed()
		s.ActualSteering = driver.SteeringAngle()
		s.ActualBrake = driver.BrakeIntensity()
	})

	if sampled && obstacle.Detected() {
		m.publishSensor(step, line, obstacle, snap)
	}
	if step%m.steerEvery == 0 {
		m.publishRaw(step, driver)
	}
}

// sense 采集并处理传感器数据
// 返回：平滑后的车道线角度，障碍物读数
func (m *VehicleManager) sense(driver entity.IDriver) (entity.Angle, entity.ObstacleReading) {
	raw := entity.Unknown
	if m.caps.Camera {
		raw = m.line.Estimate(driver.Camera().Frame())
	}
	line := m.filter.Filter(raw)
	obstacle := entity.ObstacleReading{Bearing: entity.Unknown}
	if m.caps.Lidar {
		obstacle = m.obstacle.Detect(driver.Lidar().Frame())
	}
	return line, obstacle
}

// publishSensor 发布车辆传感器记录
func (m *VehicleManager) publishSensor(step int32, line entity.Angle, obstacle entity.ObstacleReading, snap Snapshot) {
	record := telemetry.CarSensorRecord{
		LineAngle:        line,
		ObstacleDistance: obstacle.Distance,
		ObstacleAngle:    obstacle.Bearing,
		Brake:            snap.BrakeIntensity,
		Speed:            snap.Speed,
		SteeringAngle:    snap.SteeringAngle,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		log.Warnf("encode %s: %v", telemetry.TopicCarSensor, err)
		return
	}
	m.ctx.Telemetry().Publish(telemetry.TopicCarSensor, strconv.Itoa(int(step)), payload)
}

// publishRaw 按配置发布原始相机与激光雷达数据
func (m *VehicleManager) publishRaw(step int32, driver entity.IDriver) {
	tc := m.ctx.RuntimeConfig().All.Telemetry
	key := strconv.Itoa(int(step))
	out := m.ctx.Telemetry()
	if tc.PublishCamera && m.caps.Camera {
		if payload, err := telemetry.EncodeCamera(driver.Camera().Frame()); err != nil {
			log.Warnf("encode %s: %v", telemetry.TopicCamera, err)
		} else {
			out.Publish(telemetry.TopicCamera, key, payload)
		}
	}
	if m.caps.Lidar && (tc.PublishLidar || tc.PublishPointCloud) {
		frame := driver.Lidar().Frame()
		if tc.PublishLidar {
			if payload, err := telemetry.EncodeRange(frame); err != nil {
				log.Warnf("encode %s: %v", telemetry.TopicLidarRange, err)
			} else {
				out.Publish(telemetry.TopicLidarRange, key, payload)
			}
		}
		if tc.PublishPointCloud {
			if payload, err := telemetry.EncodePointCloud(frame); err != nil {
				log.Warnf("encode %s: %v", telemetry.TopicLidarPointCloud, err)
			} else {
				out.Publish(telemetry.TopicLidarPointCloud, key, payload)
			}
		}
	}
}
