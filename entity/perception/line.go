package perception

import (
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
)

// LineEstimator 车道线角度估计
// 功能：在一帧相机图像中寻找参考颜色的车道线，换算为相对车头的角度偏移
// 说明：无状态，逐像素扫描，不做空间滤波，零散的误匹配像素会被直接计入
type LineEstimator struct {
	Reference [3]uint8 // 参考颜色，与像素前三个通道一一对应
	Threshold int      // 匹配阈值，颜色距离小于该值视为匹配
}

// NewLineEstimator 创建车道线角度估计器
func NewLineEstimator(reference [3]uint8, threshold int) LineEstimator {
	return LineEstimator{Reference: reference, Threshold: threshold}
}

// colorDistance 颜色距离：前三个通道绝对差之和
func (e LineEstimator) colorDistance(px [3]byte) int {
	d := 0
	for i := 0; i < 3; i++ {
		diff := int(px[i]) - int(e.Reference[i])
		if diff < 0 {
			diff = -diff
		}
		d += diff
	}
	return d
}

// Estimate 估计车道线角度
// 功能：统计所有匹配像素的列坐标，以平均列坐标计算角度
// 参数：frame-相机帧
// 返回：角度（弧度），无匹配像素时为entity.Unknown
// 算法说明：
// 1. 遍历每个像素，计算其与参考颜色的距离
// 2. 距离小于阈值时累加列坐标与匹配数
// 3. 角度 = (平均列坐标 / 宽度 - 0.5) * 水平视场角
func (e LineEstimator) Estimate(frame entity.CameraFrame) entity.Angle {
	if frame.Width <= 0 || frame.Height <= 0 {
		return entity.Unknown
	}
	sumX := 0
	count := 0
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			if e.colorDistance(frame.At(x, y)) < e.Threshold {
				sumX += x
				count++
			}
		}
	}
	if count == 0 {
		return entity.Unknown
	}
	mean := float64(sumX) / float64(count)
	angle := (mean/float64(frame.Width) - 0.5) * frame.FOV
	log.Tracef("line matched %d pixels, angle %.4f", count, angle)
	return entity.Known(angle)
}
