package perception

import (
	"math"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"gonum.org/v1/gonum/stat"
)

// ObstacleDetector 前向障碍物检测
// 功能：在激光雷达扫描的前向扇区内寻找距离小于阈值的采样，估计障碍物方位与距离
type ObstacleDetector struct {
	HalfWindow int     // 前向扇区半宽（采样数）
	Threshold  float64 // 障碍物判定距离
}

// NewObstacleDetector 创建障碍物检测器
func NewObstacleDetector(halfWindow int, threshold float64) ObstacleDetector {
	return ObstacleDetector{HalfWindow: halfWindow, Threshold: threshold}
}

// Window 前向扇区的采样区间[begin, end)
// 功能：以扫描中心为基准向两侧各扩展HalfWindow个采样
// 参数：resolution-水平采样数
// 返回：起始下标（含），结束下标（不含），均已截断到[0, resolution]
// 说明：中心位置为resolution/2，端点按四舍六入五成双取整
func (d ObstacleDetector) Window(resolution int) (int, int) {
	center := float64(resolution) / 2
	begin := int(math.RoundToEven(center - float64(d.HalfWindow)))
	end := int(math.RoundToEven(center + float64(d.HalfWindow)))
	begin = max(begin, 0)
	end = min(end, resolution)
	if end < begin {
		end = begin
	}
	return begin, end
}

// Detect 检测障碍物
// 功能：统计前向扇区内距离小于阈值的采样
// 参数：frame-激光雷达帧
// 返回：障碍物读数，没有符合条件的采样时方位为entity.Unknown、距离为0
// 算法说明：
// 1. 方位 = (碰撞采样平均下标 / 采样数 - 0.5) * 水平视场角
// 2. 距离 = 碰撞采样距离的算术平均
func (d ObstacleDetector) Detect(frame entity.RangeFrame) entity.ObstacleReading {
	width := len(frame.Ranges)
	if width == 0 {
		return entity.ObstacleReading{Bearing: entity.Unknown}
	}
	begin, end := d.Window(width)
	columns := make([]float64, 0, end-begin)
	distances := make([]float64, 0, end-begin)
	for i := begin; i < end; i++ {
		r := frame.Ranges[i]
		if math.IsNaN(r) {
			continue
		}
		if r < d.Threshold {
			columns = append(columns, float64(i))
			distances = append(distances, r)
		}
	}
	if len(columns) == 0 {
		return entity.ObstacleReading{Bearing: entity.Unknown}
	}
	bearing := (stat.Mean(columns, nil)/float64(width) - 0.5) * frame.FOV
	distance := stat.Mean(distances, nil)
	log.Tracef("obstacle samples %d, bearing %.4f, distance %.3f", len(columns), bearing, distance)
	return entity.ObstacleReading{Bearing: entity.Known(bearing), Distance: distance}
}
