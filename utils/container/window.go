package container

// Window 定长滑动窗口
// 功能：保存最近N个样本，新样本从尾部进入，最旧样本从头部移出
// 说明：窗口始终恰好包含N个元素，未写满的部分为零值
type Window[T any] struct {
	data []T // 按时间顺序排列，data[0]最旧
}

// NewWindow 创建大小为n的滑动窗口，n至少为1
func NewWindow[T any](n int) *Window[T] {
	if n < 1 {
		n = 1
	}
	return &Window[T]{data: make([]T, n)}
}

// Len 窗口大小
func (w *Window[T]) Len() int {
	return len(w.data)
}

// Push 左移一位并在尾部写入新样本
func (w *Window[T]) Push(value T) {
	copy(w.data, w.data[1:])
	w.data[len(w.data)-1] = value
}

// Fill 将窗口全部写为value
func (w *Window[T]) Fill(value T) {
	for i := range w.data {
		w.data[i] = value
	}
}

// Values 窗口内容（只读视图，按时间顺序）
func (w *Window[T]) Values() []T {
	return w.data
}
