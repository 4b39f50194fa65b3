package vehicle

// Decision 仲裁结果
// 功能：描述一次仲裁对转角与制动的修改
// 说明：SteeringSet/BrakeSet为false时对应的量保持不变
type Decision struct {
	Steering    float64 // 期望转角（未限幅）
	Brake       float64 // 制动强度
	SteeringSet bool    // 是否修改转角
	BrakeSet    bool    // 是否修改制动
	PIDReset    bool    // 本次是否标记了PID复位
	Branch      Branch  // 命中的分支
}

// SetSteering 设置期望转角
func (d *Decision) SetSteering(angle float64) {
	d.Steering = angle
	d.SteeringSet = true
}

// SetBrake 设置制动强度
func (d *Decision) SetBrake(intensity float64) {
	d.Brake = intensity
	d.BrakeSet = true
}

// Merge 合并另一个转角候选
// 功能：两个候选同号时取绝对值较大者，异号或含0时保留已有候选
// 参数：other-另一个转角候选
// 算法说明：
// 1. 同为正：取最大值（向右打得更多）
// 2. 同为负：取最小值（向左打得更多）
func (d *Decision) Merge(other float64) {
	switch {
	case d.Steering > 0 && other > 0:
		d.Steering = max(d.Steering, other)
	case d.Steering < 0 && other < 0:
		d.Steering = min(d.Steering, other)
	}
}
