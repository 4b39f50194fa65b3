package vehicle

import (
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
)

const (
	obstacleNearBand = 0.04 // 障碍物方位的近前方判定带宽（弧度）
	obstacleBias     = 0.25 // 避障转角偏置（弧度）
)

// Branch 仲裁命中的策略分支
type Branch int

const (
	BranchManual   Branch = iota // 未启用避障，转角保持由操作员设定
	BranchObstacle               // 检测到障碍物
	BranchLine                   // 无障碍物，巡线
	BranchLost                   // 无障碍物且丢失车道线
)

func (b Branch) String() string {
	switch b {
	case BranchObstacle:
		return "obstacle"
	case BranchLine:
		return "line"
	case BranchLost:
		return "lost"
	default:
		return "manual"
	}
}

// ArbiterInput 仲裁输入
type ArbiterInput struct {
	Current   float64                // 当前已执行的转角
	Obstacle  entity.ObstacleReading // 障碍物读数
	Line      entity.Angle           // 平滑后的车道线角度
	Avoidance bool                   // 是否启用避障
}

// Arbiter 转向仲裁器
// 功能：合并避障转角与巡线转角为一个转角，并决定制动强度
// 说明：除驱动的PID外无状态
type Arbiter struct {
	PID           *LineFollowPID
	LostLineBrake float64 // 丢失车道线时的制动强度
}

// NewArbiter 创建转向仲裁器
func NewArbiter(pid *LineFollowPID, lostLineBrake float64) *Arbiter {
	return &Arbiter{PID: pid, LostLineBrake: lostLineBrake}
}

// obstacleSteering 避障转角候选
// 说明：两个条件按原策略逐字判断，第二个条件覆盖了第一个之外的几乎全部方位，
// 方位不大于-0.04时保持当前转角；distance为0时结果为±Inf，由限幅器截断
func obstacleSteering(current, bearing, distance float64) float64 {
	if 0 < bearing && bearing < obstacleNearBand {
		return current + (bearing-obstacleBias)/distance
	} else if bearing > -obstacleNearBand {
		return current + (bearing+obstacleBias)/distance
	}
	return current
}

// Decide 执行一次仲裁
// 功能：按优先级依次判断避障、巡线、丢线三个分支
// 参数：in-仲裁输入
// 返回：仲裁结果
// 算法说明：
// 1. 启用避障且检测到障碍物：制动置0，计算避障候选；
// 车道线有效时与PID巡线候选合并（同正取大，同负取小，异号取避障候选），
// 车道线缺失时标记PID复位并只使用避障候选
// 2. 启用避障且车道线有效：制动置0，转角为PID输出
// 3. 启用避障但两者均缺失：制动置为丢线制动强度，标记PID复位，转角不变
// 4. 未启用避障：不修改转角与制动
func (a *Arbiter) Decide(in ArbiterInput) Decision {
	if !in.Avoidance {
		return Decision{Branch: BranchManual}
	}
	line, lineOK := in.Line.Value()
	if bearing, ok := in.Obstacle.Bearing.Value(); ok {
		d := Decision{
			Branch:   BranchObstacle,
			Steering: obstacleSteering(in.Current, bearing, in.Obstacle.Distance),
		}
		d.SetBrake(0)
		d.SteeringSet = true
		if lineOK {
			d.Merge(a.PID.Apply(line))
		} else {
			a.PID.MarkReset()
			d.PIDReset = true
		}
		return d
	}
	if lineOK {
		d := Decision{Branch: BranchLine}
		d.SetBrake(0)
		d.SetSteering(a.PID.Apply(line))
		return d
	}
	log.Debug("lost the line")
	a.PID.MarkReset()
	d := Decision{Branch: BranchLost, PIDReset: true}
	d.SetBrake(a.LostLineBrake)
	return d
}
