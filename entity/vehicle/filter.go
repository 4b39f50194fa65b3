package vehicle

import (
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/container"
	"gonum.org/v1/gonum/stat"
)

// SmoothingFilter 车道线角度平滑滤波器
// 功能：保存最近N个角度样本，输出其算术平均
// 说明：首次调用或输入缺失时清零窗口并输出缺失，之后的有效样本会被零值拖慢，属于冷启动行为
type SmoothingFilter struct {
	window *container.Window[float64] // 最近N个样本，未写入的位置为0
	first  bool                       // 是否尚未被调用过
}

// NewSmoothingFilter 创建窗口大小为n的平滑滤波器
func NewSmoothingFilter(n int) *SmoothingFilter {
	return &SmoothingFilter{
		window: container.NewWindow[float64](n),
		first:  true,
	}
}

// Filter 输入一个角度样本
// 功能：更新窗口并返回平滑后的角度
// 参数：a-本步估计的角度
// 返回：平滑后的角度，输入缺失或首次调用时为entity.Unknown
// 算法说明：
// 1. 首次调用或输入缺失：窗口全部置0，返回缺失
// 2. 否则窗口左移一位，新样本写入尾部，返回窗口均值
func (f *SmoothingFilter) Filter(a entity.Angle) entity.Angle {
	v, ok := a.Value()
	if f.first || !ok {
		f.Reset()
		return entity.Unknown
	}
	f.window.Push(v)
	return entity.Known(stat.Mean(f.window.Values(), nil))
}

// Reset 清零窗口
func (f *SmoothingFilter) Reset() {
	f.first = false
	f.window.Fill(0)
}

// Window 窗口内容副本，按时间顺序
func (f *SmoothingFilter) Window() []float64 {
	return append([]float64(nil), f.window.Values()...)
}
