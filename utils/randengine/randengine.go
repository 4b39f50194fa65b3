// 随机数引擎，包装了golang.org/x/exp/rand，为仿真传感器提供噪声
package randengine

import (
	"flag"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，支持线程安全操作
// 说明：基于golang.org/x/exp/rand库，同一种子产生同一组传感器噪声
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// PTrue 以指定概率返回true（非线程安全）
// 参数：p-返回true的概率（0.0到1.0之间）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Gaussian 零均值高斯噪声（非线程安全）
// 功能：生成标准差为std的噪声，std<=0时返回0且不消耗随机数
// 参数：std-标准差
// 返回：噪声值
func (e *Engine) Gaussian(std float64) float64 {
	if std <= 0 {
		return 0
	}
	return e.NormFloat64() * std
}

// GaussianSafe 零均值高斯噪声（线程安全）
func (e *Engine) GaussianSafe(std float64) float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Gaussian(std)
}

// Float64Safe 随机生成浮点数（线程安全）
// 返回：[0.0, 1.0)范围内的随机浮点数
func (e *Engine) Float64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64()
}
