package vehicle

import (
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
)

// LineFollowPID 巡线PID控制器
// 功能：把平滑后的车道线角度转换为修正转角
// 说明：
// 1. 积分项累加的是原始角度而不是误差
// 2. 输入与上一次不同即清空积分，连续变化的输入几乎不会积累积分
// 3. 积分只在(-limit, limit)开区间内继续累加
type LineFollowPID struct {
	cfg config.PID

	integral   float64 // 积分项
	lastError  float64 // 上一次的输入
	needsReset bool    // 下一次有效输入前是否需要复位
}

// NewLineFollowPID 创建巡线PID控制器
// 说明：初始处于待复位状态，第一次输入作为上一次的输入
func NewLineFollowPID(cfg config.PID) *LineFollowPID {
	return &LineFollowPID{cfg: cfg, needsReset: true}
}

// Apply 计算修正转角
// 参数：a-平滑后的车道线角度（弧度）
// 返回：Kp*a + Ki*积分 + Kd*(a-上一次输入)
// 算法说明：
// 1. 待复位时清空积分，以a作为上一次输入，清除待复位标志
// 2. a与上一次输入不同则清空积分
// 3. 积分在开区间内时加上a
func (p *LineFollowPID) Apply(a float64) float64 {
	if p.needsReset {
		p.integral = 0
		p.lastError = a
		p.needsReset = false
	}
	if a != p.lastError {
		p.integral = 0
	}
	diff := a - p.lastError
	if p.integral < p.cfg.IntegralLimit && p.integral > -p.cfg.IntegralLimit {
		p.integral += a
	}
	p.lastError = a
	return p.cfg.Kp*a + p.cfg.Ki*p.integral + p.cfg.Kd*diff
}

// MarkReset 上游角度缺失，下一次有效输入时复位
func (p *LineFollowPID) MarkReset() {
	p.needsReset = true
}

// NeedsReset 是否处于待复位状态
func (p *LineFollowPID) NeedsReset() bool {
	return p.needsReset
}

// Integral 当前积分项
func (p *LineFollowPID) Integral() float64 {
	return p.integral
}
