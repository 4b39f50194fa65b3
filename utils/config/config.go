package config

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v2"
)

// Default 默认配置
// 功能：返回原始车辆控制程序使用的全部常量
// 说明：YAML中未出现的字段保持默认值
func Default() Config {
	return Config{
		Control: Control{
			Step: ControlStep{
				Start:    0,
				Total:    6000,
				Interval: 0.01,
			},
			Mode:               ModeAuto,
			AutoSteerAfter:     200,
			SensorPeriod:       50,
			CollisionAvoidance: true,
		},
		Vehicle: Vehicle{
			MinSteeringAngle:  -0.5,
			MaxSteeringAngle:  0.5,
			MaxSteeringStep:   0.1,
			MaxSpeed:          30,
			MaxBrakeIntensity: 0.4,
			LostLineBrake:     0.4,
			StartSpeed:        2,
		},
		Perception: Perception{
			ReferenceColor:  []int{95, 187, 203},
			ColorThreshold:  30,
			LidarHalfWindow: 20,
			LidarThreshold:  20,
		},
		PID: PID{
			Kp:            0.25,
			Ki:            0.006,
			Kd:            2,
			IntegralLimit: 30,
		},
		Smoothing: Smoothing{Size: 3},
		Telemetry: Telemetry{
			QueueSize: 256,
			Log:       true,
		},
		Sim: Sim{
			Seed:       1,
			LidarNoise: 0.02,
		},
	}
}

// Load 解析YAML配置
// 功能：在默认配置的基础上严格解析YAML并校验
// 参数：data-YAML文本
// 返回：配置，错误信息
func Load(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate 校验配置
// 功能：检查步长、包络、感知与PID参数的合法性
// 返回：第一个发现的错误，合法时为nil
func (c Config) Validate() error {
	switch {
	case c.Control.Step.Interval <= 0:
		return errors.New("control.step.interval must be > 0")
	case c.Control.Step.Total <= 0:
		return errors.New("control.step.total must be > 0")
	case c.Control.SensorPeriod <= 0:
		return errors.New("control.sensor_period must be > 0")
	case c.Vehicle.MinSteeringAngle >= c.Vehicle.MaxSteeringAngle:
		return errors.New("vehicle.min_steering_angle must be < vehicle.max_steering_angle")
	case c.Vehicle.MaxSteeringStep <= 0:
		return errors.New("vehicle.max_steering_step must be > 0")
	case c.Vehicle.MaxSpeed <= 0:
		return errors.New("vehicle.max_speed must be > 0")
	case c.Vehicle.MaxBrakeIntensity < 0 || c.Vehicle.MaxBrakeIntensity > 1:
		return errors.New("vehicle.max_brake_intensity must be in [0, 1]")
	case len(c.Perception.ReferenceColor) != 3:
		return fmt.Errorf("perception.reference_color needs 3 channels, got %d", len(c.Perception.ReferenceColor))
	case c.Perception.ColorThreshold <= 0:
		return errors.New("perception.color_threshold must be > 0")
	case c.Perception.LidarHalfWindow <= 0:
		return errors.New("perception.lidar_half_window must be > 0")
	case c.PID.IntegralLimit <= 0:
		return errors.New("pid.integral_limit must be > 0")
	case c.Smoothing.Size <= 0:
		return errors.New("smoothing.size must be > 0")
	case c.Telemetry.QueueSize <= 0:
		return errors.New("telemetry.queue_size must be > 0")
	case c.Sim.LidarDropout < 0 || c.Sim.LidarDropout > 1:
		return errors.New("sim.lidar_dropout must be in [0, 1]")
	}
	for _, v := range c.Perception.ReferenceColor {
		if v < 0 || v > 255 {
			return fmt.Errorf("perception.reference_color value %d out of [0, 255]", v)
		}
	}
	return nil
}

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息以及由配置推导出的量
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control

	return rc
}

// BasicTimeStep 仿真基础步长（毫秒）
func (rc *RuntimeConfig) BasicTimeStep() float64 {
	return rc.C.Step.Interval * 1000
}

// SteerEvery 自动转向的间隔步数
// 功能：按传感器采样周期与仿真基础步长计算每隔多少步执行一次自动转向
// 参数：basicTimeStep-仿真基础步长（毫秒）
// 返回：间隔步数，至少为1
func (rc *RuntimeConfig) SteerEvery(basicTimeStep float64) int32 {
	if basicTimeStep <= 0 {
		return 1
	}
	n := int32(math.Floor(rc.C.SensorPeriod / basicTimeStep))
	if n < 1 {
		return 1
	}
	return n
}

// InitialSpeed 初始速度
// 功能：未配置时自动模式为50、手动模式为0，结果限制在[0, 最大速度]
func (rc *RuntimeConfig) InitialSpeed() float64 {
	v := rc.All.Vehicle
	speed := 0.0
	if v.InitialSpeed != nil {
		speed = *v.InitialSpeed
	} else if rc.C.Mode == ModeAuto {
		speed = 50
	}
	return math.Max(0, math.Min(speed, v.MaxSpeed))
}

// ReferenceColor 车道线参考颜色
func (rc *RuntimeConfig) ReferenceColor() [3]uint8 {
	var ref [3]uint8
	for i := range ref {
		ref[i] = uint8(rc.All.Perception.ReferenceColor[i])
	}
	return ref
}
