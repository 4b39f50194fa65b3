package telemetry

// LogSink 日志输出端
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Write(r Record, envelope []byte) error {
	if r.Topic == TopicCarSensor {
		log.Infof("[%s] key=%s t=%.2f %s", r.Topic, r.Key, r.Time, r.Payload)
	} else {
		log.Debugf("[%s] key=%s t=%.2f %d bytes", r.Topic, r.Key, r.Time, len(envelope))
	}
	return nil
}

func (LogSink) Close() error { return nil }
