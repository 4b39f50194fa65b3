package vehicle

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
)

// Limiter 执行器限幅
// 功能：保证送到执行器的转角、制动与速度始终在车辆物理包络内
type Limiter struct {
	MinAngle float64 // 最小转角
	MaxAngle float64 // 最大转角
	MaxStep  float64 // 每步转角最大变化量
	MaxBrake float64 // 最大制动强度
	MaxSpeed float64 // 最大速度
}

// NewLimiter 根据车辆包络配置创建限幅器
func NewLimiter(v config.Vehicle) Limiter {
	return Limiter{
		MinAngle: v.MinSteeringAngle,
		MaxAngle: v.MaxSteeringAngle,
		MaxStep:  v.MaxSteeringStep,
		MaxBrake: v.MaxBrakeIntensity,
		MaxSpeed: v.MaxSpeed,
	}
}

// Limit 转角限幅
// 功能：先限制相对上一次已执行转角的变化量，再限制到转角范围内
// 参数：proposed-期望转角，previous-上一次已执行的转角
// 返回：本步可执行的转角
// 说明：期望转角为NaN时保持上一次转角，±Inf会被变化量限制截断
func (l Limiter) Limit(proposed, previous float64) float64 {
	if math.IsNaN(proposed) {
		proposed = previous
	}
	step := lo.Clamp(proposed-previous, -l.MaxStep, l.MaxStep)
	return lo.Clamp(previous+step, l.MinAngle, l.MaxAngle)
}

// ClampAngle 转角限制到[最小转角, 最大转角]
func (l Limiter) ClampAngle(angle float64) float64 {
	return lo.Clamp(angle, l.MinAngle, l.MaxAngle)
}

// ClampBrake 制动强度限制到[0, 最大制动强度]
func (l Limiter) ClampBrake(intensity float64) float64 {
	return lo.Clamp(intensity, 0, l.MaxBrake)
}

// ClampSpeed 速度限制到[0, 最大速度]
func (l Limiter) ClampSpeed(speed float64) float64 {
	return lo.Clamp(speed, 0, l.MaxSpeed)
}
