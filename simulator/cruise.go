package simulator

import (
	"time"

	"github.com/samber/lo"
	"go.einride.tech/pid"
)

// cruise 巡航控制
// 功能：用PID把实际速度调节到巡航速度，制动强度直接叠加减速度
type cruise struct {
	ctrl     pid.Controller
	maxAccel float64 // 最大加速度（米/秒²）
	maxDecel float64 // 最大制动减速度（米/秒²），制动强度为1时达到
}

func newCruise() *cruise {
	return &cruise{
		ctrl: pid.Controller{
			Config: pid.ControllerConfig{
				ProportionalGain: 1.2,
				IntegralGain:     0.2,
				DerivativeGain:   0,
			},
		},
		maxAccel: 3,
		maxDecel: 8,
	}
}

// accel 计算本步加速度
// 参数：target-巡航速度（米/秒），actual-实际速度（米/秒），brake-制动强度，dt-步长
// 返回：加速度（米/秒²）
func (c *cruise) accel(target, actual, brake float64, dt time.Duration) float64 {
	c.ctrl.Update(pid.ControllerInput{
		ReferenceSignal:  target,
		ActualSignal:     actual,
		SamplingInterval: dt,
	})
	a := lo.Clamp(c.ctrl.State.ControlSignal, -c.maxDecel, c.maxAccel)
	if brake > 0 {
		a = min(a, 0) - brake*c.maxDecel
	}
	return a
}
