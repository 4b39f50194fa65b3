package entity

import (
	"fmt"
	"math"
	"strings"
)

// NoReturn 激光雷达无回波时的距离哨兵
// 说明：以一个远大于任何量程的有限值代替NaN/Inf，保证比较运算全序
const NoReturn = 99999.99

// CameraFrame 单帧相机图像
// 功能：存储一帧按行优先排列的像素数据及相机参数
// 说明：由产生它的仿真步独占，处理过程中不做修改
type CameraFrame struct {
	Width    int     // 图像宽度（像素）
	Height   int     // 图像高度（像素）
	Channels int     // 每像素通道数（>=3，通道顺序只需前后一致）
	FOV      float64 // 水平视场角（弧度）
	Pix      []byte  // 行优先像素数据，长度为Width*Height*Channels
}

// NewCameraFrame 创建并校验相机帧
// 功能：检查尺寸与数据长度的一致性
// 参数：width、height-图像尺寸，channels-通道数，fov-视场角，pix-像素数据
// 返回：相机帧，错误信息
func NewCameraFrame(width, height, channels int, fov float64, pix []byte) (CameraFrame, error) {
	if width <= 0 || height <= 0 {
		return CameraFrame{}, fmt.Errorf("invalid camera size %dx%d", width, height)
	}
	if channels < 3 {
		return CameraFrame{}, fmt.Errorf("camera frame needs at least 3 channels, got %d", channels)
	}
	if len(pix) != width*height*channels {
		return CameraFrame{}, fmt.Errorf("camera frame expects %d bytes, got %d", width*height*channels, len(pix))
	}
	return CameraFrame{Width: width, Height: height, Channels: channels, FOV: fov, Pix: pix}, nil
}

// At 获取(x, y)处像素的前三个通道
func (f CameraFrame) At(x, y int) [3]byte {
	i := (y*f.Width + x) * f.Channels
	return [3]byte{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

// RangeFrame 单帧激光雷达距离扫描
// 功能：存储一帧水平扫描的距离数据及雷达参数
type RangeFrame struct {
	Resolution int       // 水平采样数
	FOV        float64   // 水平视场角（弧度）
	MaxRange   float64   // 最大量程
	Ranges     []float64 // 各采样距离，无回波为NoReturn
}

// NewRangeFrame 创建激光雷达帧
// 功能：复制距离数据并将NaN与±Inf替换为NoReturn
// 参数：fov-视场角，maxRange-最大量程，ranges-原始距离数据
// 返回：激光雷达帧
// 说明：采样数取ranges的长度
func NewRangeFrame(fov, maxRange float64, ranges []float64) RangeFrame {
	clean := make([]float64, len(ranges))
	for i, r := range ranges {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			clean[i] = NoReturn
		} else {
			clean[i] = r
		}
	}
	return RangeFrame{Resolution: len(clean), FOV: fov, MaxRange: maxRange, Ranges: clean}
}

// ObstacleReading 障碍物检测结果
// 功能：障碍物相对车辆前向的方位角与平均距离
// 说明：Distance仅在Bearing有效时有意义
type ObstacleReading struct {
	Bearing  Angle   // 方位角（弧度）
	Distance float64 // 平均距离
}

// Detected 是否检测到障碍物
func (o ObstacleReading) Detected() bool {
	return o.Bearing.IsKnown()
}

// Capabilities 启动时的传感器能力检查结果
// 功能：记录相机与激光雷达是否存在，供下游组件统一判断
// 说明：缺失的传感器在整个运行期间按永久UNKNOWN处理
type Capabilities struct {
	Camera bool // 相机是否可用
	Lidar  bool // 激光雷达是否可用
}

func (c Capabilities) String() string {
	return fmt.Sprintf("camera=%t lidar=%t", c.Camera, c.Lidar)
}

// Indicator 转向灯状态
type Indicator int

const (
	IndicatorOff   Indicator = iota // 关闭
	IndicatorRight                  // 右转
	IndicatorLeft                   // 左转
)

func (i Indicator) String() string {
	switch i {
	case IndicatorRight:
		return "Right"
	case IndicatorLeft:
		return "Left"
	default:
		return "Off"
	}
}

// ParseIndicator 解析转向灯名称（不区分大小写）
func ParseIndicator(s string) (Indicator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return IndicatorOff, nil
	case "right":
		return IndicatorRight, nil
	case "left":
		return IndicatorLeft, nil
	default:
		return IndicatorOff, fmt.Errorf("unknown indicator %q", s)
	}
}
