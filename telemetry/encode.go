package telemetry

import (
	"encoding/json"
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
)

type cameraPayload struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Channels int     `json:"channels"`
	FOV      float64 `json:"fov"`
	Pix      []byte  `json:"pix"` // base64
}

type rangePayload struct {
	Resolution int       `json:"resolution"`
	FOV        float64   `json:"fov"`
	MaxRange   float64   `json:"max_range"`
	Ranges     []float64 `json:"ranges"`
}

type pointCloudPayload struct {
	Count  int          `json:"count"`
	Points [][3]float64 `json:"points"`
}

// EncodeCamera 编码原始相机帧
func EncodeCamera(f entity.CameraFrame) ([]byte, error) {
	return json.Marshal(cameraPayload{
		Width: f.Width, Height: f.Height, Channels: f.Channels, FOV: f.FOV, Pix: f.Pix,
	})
}

// EncodeRange 编码原始距离扫描
func EncodeRange(f entity.RangeFrame) ([]byte, error) {
	return json.Marshal(rangePayload{
		Resolution: f.Resolution, FOV: f.FOV, MaxRange: f.MaxRange, Ranges: f.Ranges,
	})
}

// PointCloud 距离扫描转换为车辆坐标系下的点云
// 功能：按每个采样的方位角把距离投影到水平面，x轴指向车头，y轴指向右侧
// 参数：f-激光雷达帧
// 返回：有回波的采样对应的点
// 说明：方位角计算方式与障碍物检测一致，(i/采样数-0.5)*视场角
func PointCloud(f entity.RangeFrame) []r3.Vector {
	n := len(f.Ranges)
	points := make([]r3.Vector, 0, n)
	for i, r := range f.Ranges {
		if r >= entity.NoReturn || (f.MaxRange > 0 && r > f.MaxRange) {
			continue
		}
		theta := (float64(i)/float64(n) - 0.5) * f.FOV
		points = append(points, r3.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta)})
	}
	return points
}

// EncodePointCloud 编码点云
func EncodePointCloud(f entity.RangeFrame) ([]byte, error) {
	points := PointCloud(f)
	return json.Marshal(pointCloudPayload{
		Count: len(points),
		Points: lo.Map(points, func(p r3.Vector, _ int) [3]float64 {
			return [3]float64{p.X, p.Y, p.Z}
		}),
	})
}
