package telemetry

import (
	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
)

// Output 一次运行的遥测输出
type Output struct {
	*Publisher
	RunID string
	Room  *Room // 未启用WebSocket时为nil
}

// New 按配置创建遥测发布器与各输出端
// 功能：依次创建日志、SQLite、MongoDB、WebSocket输出端，生成本次运行的运行ID
// 参数：c-遥测配置，now-当前仿真时间
// 返回：遥测输出，错误信息（任一输出端创建失败时已创建的输出端会被关闭）
func New(c config.Telemetry, now func() float64) (*Output, error) {
	runID := uuid.NewString()
	sinks := make([]Sink, 0)
	fail := func(err error) (*Output, error) {
		for _, s := range sinks {
			_ = s.Close()
		}
		return nil, err
	}
	if c.Log {
		sinks = append(sinks, LogSink{})
	}
	if c.SQLite != nil {
		s, err := NewSQLiteSink(c.SQLite.Path, runID)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if c.Mongo != nil {
		s, err := NewMongoSink(c.Mongo.URI, c.Mongo.DB, c.Mongo.Col, runID)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	out := &Output{RunID: runID}
	if c.WebSocket {
		out.Room = NewRoom()
		sinks = append(sinks, out.Room)
	}
	out.Publisher = NewPublisher(c.QueueSize, now, sinks...)
	log.Infof("telemetry run %s with %d sinks", runID, len(sinks))
	return out, nil
}
