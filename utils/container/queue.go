package container

import (
	"sync"
)

// Queue 延迟队列，支持任意协程写入、单一协程统一取出
// 功能：缓存其他协程提交的元素，等到Prepare时由拥有者一次性取出
// 说明：与增量数组相同的延迟更新机制，写入方不直接修改拥有者的状态
type Queue[T any] struct {
	pending []T        // 待处理的元素列表
	mtx     sync.Mutex // 写入与取出的互斥锁
}

// NewQueue 创建延迟队列
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{pending: make([]T, 0)}
}

// Push 增加元素（等到Drain时才会真正被处理）
// 功能：将元素追加到待处理列表中
// 参数：value-要添加的元素
// 说明：使用互斥锁保护并发安全
func (q *Queue[T]) Push(value T) {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	q.pending = append(q.pending, value)
}

// Len 当前待处理元素个数
func (q *Queue[T]) Len() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return len(q.pending)
}

// Drain 取出全部待处理元素
// 功能：按提交顺序返回所有待处理元素并清空列表
// 返回：待处理元素（可能为空）
func (q *Queue[T]) Drain() []T {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	out := q.pending
	q.pending = []T{}
	return out
}
