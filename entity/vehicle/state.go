package vehicle

import (
	"sync"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/container"
)

// Snapshot 控制器状态快照
type Snapshot struct {
	SteeringAngle  float64          `json:"steering_angle"`  // 已执行的转角
	TargetSteering float64          `json:"target_steering"` // 期望转角，逐步经限幅器逼近
	Speed          float64          `json:"speed"`           // 巡航速度指令
	BrakeIntensity float64          `json:"brake_intensity"` // 制动强度
	Indicator      entity.Indicator `json:"-"`               // 转向灯

	ActualSpeed    float64 `json:"actual_speed"`    // 仿真器报告的实际速度
	ActualSteering float64 `json:"actual_steering"` // 仿真器报告的实际转角
	ActualBrake    float64 `json:"actual_brake"`    // 仿真器报告的制动强度
	Step           int32   `json:"step"`            // 最近一次更新的步数
}

// CommandKind 操作员指令类型
type CommandKind int

const (
	CommandSetSpeed CommandKind = iota
	CommandSetSteering
	CommandSetBrake
	CommandSetIndicator
	CommandStart
	CommandStop
)

// Command 操作员指令
// 说明：由远程控制协程提交，在下一步的准备阶段由控制回路统一应用
type Command struct {
	Kind      CommandKind
	Value     float64          // 速度、转角或制动强度，已按包络限幅
	Indicator entity.Indicator // 转向灯
}

// State 控制器共享状态
// 功能：控制回路与远程控制之间唯一的共享状态句柄
// 说明：
// 1. 控制回路是唯一的写入方，读写均在锁内完成
// 2. 远程控制只读快照，修改通过指令队列提交
type State struct {
	mtx  sync.RWMutex
	snap Snapshot

	commands *container.Queue[Command]
	limiter  Limiter
}

// NewState 创建共享状态
// 参数：limiter-执行器限幅器，initialSpeed-初始巡航速度
func NewState(limiter Limiter, initialSpeed float64) *State {
	return &State{
		snap:     Snapshot{Speed: limiter.ClampSpeed(initialSpeed)},
		commands: container.NewQueue[Command](),
		limiter:  limiter,
	}
}

// Snapshot 读取当前状态快照（任意协程）
func (s *State) Snapshot() Snapshot {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.snap
}

// Submit 提交操作员指令（任意协程）
// 功能：按车辆包络限幅后放入指令队列
// 参数：cmd-操作员指令
// 返回：限幅后的指令，Value即操作员看到的生效值
func (s *State) Submit(cmd Command) Command {
	switch cmd.Kind {
	case CommandSetSpeed, CommandStart:
		cmd.Value = s.limiter.ClampSpeed(cmd.Value)
	case CommandSetSteering:
		cmd.Value = s.limiter.ClampAngle(cmd.Value)
	case CommandSetBrake:
		cmd.Value = s.limiter.ClampBrake(cmd.Value)
	case CommandStop:
		cmd.Value = 0
	}
	s.commands.Push(cmd)
	return cmd
}

// Pending 待应用的指令数
func (s *State) Pending() int {
	return s.commands.Len()
}

// applyCommands 应用全部待处理指令（控制回路协程）
// 返回：应用的指令数
func (s *State) applyCommands() int {
	cmds := s.commands.Drain()
	if len(cmds) == 0 {
		return 0
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for _, cmd := range cmds {
		switch cmd.Kind {
		case CommandSetSpeed, CommandStart:
			s.snap.Speed = cmd.Value
		case CommandSetSteering:
			s.snap.TargetSteering = cmd.Value
		case CommandSetBrake:
			s.snap.BrakeIntensity = cmd.Value
		case CommandSetIndicator:
			s.snap.Indicator = cmd.Indicator
		case CommandStop:
			s.snap.Speed = 0
			s.snap.TargetSteering = 0
		}
		log.Debugf("operator command %d applied: %+v", cmd.Kind, cmd)
	}
	return len(cmds)
}

// update 在锁内修改状态（控制回路协程）
func (s *State) update(fn func(snap *Snapshot)) Snapshot {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	fn(&s.snap)
	return s.snap
}
