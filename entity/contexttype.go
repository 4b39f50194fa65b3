package entity

import (
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/clock"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
)

// 遥测模块接口
type ITelemetry interface {
	// 发布一条遥测记录，不阻塞调用方，失败只记录日志
	Publish(topic, key string, payload []byte)
}

type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
	Driver() IDriver
	Telemetry() ITelemetry
}
