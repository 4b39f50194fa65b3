package telemetry_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/telemetry"
)

type memorySink struct {
	mtx     sync.Mutex
	records []telemetry.Record
	block   chan struct{} // 非nil时每次写入前等待
	fail    bool
	closed  bool
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Write(r telemetry.Record, _ []byte) error {
	if s.block != nil {
		<-s.block
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.records = append(s.records, r)
	if s.fail {
		return errors.New("boom")
	}
	return nil
}

func (s *memorySink) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.closed = true
	return nil
}

func TestPublisherDelivers(t *testing.T) {
	sink := &memorySink{}
	now := 1.5
	p := telemetry.NewPublisher(8, func() float64 { return now }, sink)
	p.Publish(telemetry.TopicCarSensor, "1", []byte(`{}`))
	p.Publish(telemetry.TopicCamera, "2", []byte(`{}`))
	p.Close()

	assert.True(t, sink.closed)
	assert.Len(t, sink.records, 2)
	assert.Equal(t, "1", sink.records[0].Key)
	assert.Equal(t, 1.5, sink.records[0].Time)
	assert.Equal(t, telemetry.TopicCamera, sink.records[1].Topic)
	assert.EqualValues(t, 2, p.Written())
	assert.Zero(t, p.Dropped())
}

func TestPublisherDropsWhenFull(t *testing.T) {
	sink := &memorySink{block: make(chan struct{})}
	p := telemetry.NewPublisher(1, nil, sink)
	// 分发协程最多持有1条，队列再容纳1条，其余全部丢弃且不阻塞
	for i := 0; i < 10; i++ {
		p.Publish("t", "k", []byte(`{}`))
	}
	assert.GreaterOrEqual(t, p.Dropped(), int64(8))
	close(sink.block)
	p.Close()
	assert.EqualValues(t, 10, p.Dropped()+p.Written())
}

func TestPublisherSinkErrorIgnored(t *testing.T) {
	sink := &memorySink{fail: true}
	p := telemetry.NewPublisher(4, nil, sink)
	p.Publish("t", "1", []byte(`{}`))
	p.Publish("t", "2", []byte(`{}`))
	p.Close()
	assert.Len(t, sink.records, 2)
	// 关闭后的发布被忽略
	p.Publish("t", "3", []byte(`{}`))
	p.Close()
	assert.Len(t, sink.records, 2)
}
