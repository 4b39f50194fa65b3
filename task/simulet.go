package task

import (
	"flag"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 返回：推进后是否仍在模拟区间内
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 车辆控制管理器：应用上一步以来的操作员指令
func (ctx *Context) prepare() bool {
	more := ctx.clock.Advance()

	if *heartBeatInterval > 0 && ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		pose := ctx.driver.Pose()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) pos=(%.1f, %.1f) v=%.1fkm/h",
			ctx.clock.InternalStep,
			hour, minute, second,
			pose.X, pose.Y, ctx.driver.CurrentSpeed(),
		)
	}

	ctx.vehicleManager.Prepare()
	return more
}

// update 更新阶段，每步执行一次
// 功能：执行感知-控制回路并下发执行器指令
func (ctx *Context) update() {
	ctx.vehicleManager.Update(ctx.clock.InternalStep)
}

// Run 运行
// 功能：循环推进仿真直到仿真器结束、到达结束步或收到关闭指令
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	for !ctx.closed.Load() {
		if !ctx.driver.Step() {
			log.Info("simulator finished")
			break
		}
		more := ctx.prepare()
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		if !more {
			break
		}
	}
	log.Infof("engine complete at step %d after %d steps, collisions %d",
		ctx.clock.InternalStep, ctx.clock.Elapsed(), ctx.driver.Collisions())
	ctx.Close()
}
