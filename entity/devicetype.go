package entity

// 仿真设备依赖倒置

// 相机：每步返回最新缓存的一帧
type ICamera interface {
	Frame() CameraFrame
}

// 激光雷达：每步返回最新缓存的一帧
type ILidar interface {
	Frame() RangeFrame
}

// 执行器：指令即发即忘，无返回值
type IActuator interface {
	SetSteeringAngle(angle float64)      // 前轮转角（弧度）
	SetCruisingSpeed(speed float64)      // 巡航速度（km/h）
	SetBrakeIntensity(intensity float64) // 制动强度[0, 1]
}

// 仿真驾驶接口（simulator/driver.go的依赖倒置）
type IDriver interface {
	IActuator

	// 启动时的传感器能力检查
	Capabilities() Capabilities
	// 相机，不存在时返回nil
	Camera() ICamera
	// 激光雷达，不存在时返回nil
	Lidar() ILidar

	// 推进仿真一步，仿真结束时返回false
	Step() bool
	// 仿真基础步长（毫秒）
	BasicTimeStep() float64

	SteeringAngle() float64  // 当前实际转角
	CurrentSpeed() float64   // 当前实际速度（km/h）
	BrakeIntensity() float64 // 当前制动强度
}
