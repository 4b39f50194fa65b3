package telemetry

import (
	"sync"
	"sync/atomic"
)

// Sink 遥测输出端
type Sink interface {
	Name() string
	Write(r Record, envelope []byte) error
	Close() error
}

// Publisher 遥测发布器
// 功能：把控制回路产生的记录异步分发给各输出端
// 说明：
// 1. Publish从不阻塞，队列满时丢弃并告警
// 2. 输出端的错误只记录日志，不重试
type Publisher struct {
	queue chan Record
	sinks []Sink
	now   func() float64 // 当前仿真时间

	dropped atomic.Int64
	written atomic.Int64
	closed  atomic.Bool
	mtx     sync.RWMutex // 保护queue的关闭
	done    chan struct{}
}

// NewPublisher 创建遥测发布器并启动分发协程
// 参数：size-队列长度，now-当前仿真时间（可为nil），sinks-输出端
func NewPublisher(size int, now func() float64, sinks ...Sink) *Publisher {
	if size < 1 {
		size = 1
	}
	p := &Publisher{
		queue: make(chan Record, size),
		sinks: sinks,
		now:   now,
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish 发布一条记录
// 参数：topic-主题，key-记录键，payload-负载
// 说明：不阻塞调用方
func (p *Publisher) Publish(topic, key string, payload []byte) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	if p.closed.Load() {
		return
	}
	r := Record{Key: key, Topic: topic, Payload: payload}
	if p.now != nil {
		r.Time = p.now()
	}
	select {
	case p.queue <- r:
	default:
		n := p.dropped.Add(1)
		log.Warnf("telemetry queue full, drop %s/%s (dropped %d)", topic, key, n)
	}
}

// run 分发协程
func (p *Publisher) run() {
	defer close(p.done)
	for r := range p.queue {
		envelope, err := r.Encode()
		if err != nil {
			log.Warnf("encode %s/%s: %v", r.Topic, r.Key, err)
			continue
		}
		for _, s := range p.sinks {
			if err := s.Write(r, envelope); err != nil {
				log.Warnf("sink %s write %s/%s: %v", s.Name(), r.Topic, r.Key, err)
			}
		}
		p.written.Add(1)
	}
}

// Dropped 因队列满被丢弃的记录数
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Written 已分发的记录数
func (p *Publisher) Written() int64 {
	return p.written.Load()
}

// Close 停止接收新记录，等待队列中的记录分发完毕并关闭输出端
func (p *Publisher) Close() {
	p.mtx.Lock()
	if p.closed.Swap(true) {
		p.mtx.Unlock()
		return
	}
	close(p.queue)
	p.mtx.Unlock()
	<-p.done
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			log.Warnf("sink %s close: %v", s.Name(), err)
		}
	}
}
