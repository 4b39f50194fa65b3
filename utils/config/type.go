package config

import (
	"fmt"
	"strings"
)

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义场景数据的来源，文件优先于MongoDB
type InputPath struct {
	DB   string `yaml:"db,omitempty"`   // 数据库名
	Col  string `yaml:"col,omitempty"`  // 集合名
	Name string `yaml:"name,omitempty"` // 场景名（MongoDB文档的name字段）
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定模拟器所有输入数据的配置项
type Input struct {
	URI      string    `yaml:"uri,omitempty"`      // MongoDB连接字符串
	Scenario InputPath `yaml:"scenario,omitempty"` // 场景（车道线与障碍物），均为空时使用内置场景
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Mode 程序模式
type Mode int

const (
	ModeManual Mode = iota // 手动：仅执行操作员指令
	ModeAuto               // 自动：感知-控制回路接管转向与制动
)

func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeAuto:
		return "auto"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode 解析模式名称
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "manual":
		return ModeManual, nil
	case "auto":
		return ModeAuto, nil
	default:
		return ModeManual, fmt.Errorf("unknown mode %q", value)
	}
}

// UnmarshalYAML 允许以字符串配置模式
func (m *Mode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseMode(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML 以字符串输出模式
func (m Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// Control 模拟器控制配置
// 功能：定义仿真时间、程序模式以及自动转向的调度
type Control struct {
	Step               ControlStep `yaml:"step"`
	Mode               Mode        `yaml:"mode"`                // 程序模式
	AutoSteerAfter     int32       `yaml:"auto_steer_after"`    // 超过该步数后才开始自动转向
	SensorPeriod       float64     `yaml:"sensor_period"`       // 传感器采样周期（毫秒），决定自动转向的间隔步数
	CollisionAvoidance bool        `yaml:"collision_avoidance"` // 是否启用避障与巡线转向
}

// Vehicle 车辆物理包络
type Vehicle struct {
	MinSteeringAngle  float64  `yaml:"min_steering_angle"`      // 最小转角（弧度）
	MaxSteeringAngle  float64  `yaml:"max_steering_angle"`      // 最大转角（弧度）
	MaxSteeringStep   float64  `yaml:"max_steering_step"`       // 每步转角最大变化量（弧度）
	MaxSpeed          float64  `yaml:"max_speed"`               // 最大速度（km/h）
	MaxBrakeIntensity float64  `yaml:"max_brake_intensity"`     // 最大制动强度
	LostLineBrake     float64  `yaml:"lost_line_brake"`         // 丢失车道线时的制动强度
	StartSpeed        float64  `yaml:"start_speed"`             // 操作员start指令设置的速度
	InitialSpeed      *float64 `yaml:"initial_speed,omitempty"` // 初始速度，为空时自动模式50、手动模式0
}

// Perception 感知参数
type Perception struct {
	ReferenceColor  []int   `yaml:"reference_color"`   // 车道线参考颜色（与像素通道顺序一致）
	ColorThreshold  int     `yaml:"color_threshold"`   // 颜色匹配阈值（逐通道绝对差之和）
	LidarHalfWindow int     `yaml:"lidar_half_window"` // 前向扫描半宽（采样数）
	LidarThreshold  float64 `yaml:"lidar_threshold"`   // 障碍物判定距离
}

// PID 巡线PID参数
type PID struct {
	Kp            float64 `yaml:"kp"`
	Ki            float64 `yaml:"ki"`
	Kd            float64 `yaml:"kd"`
	IntegralLimit float64 `yaml:"integral_limit"` // 积分项开区间(-limit, limit)内才继续累加
}

// Smoothing 车道线角度平滑参数
type Smoothing struct {
	Size int `yaml:"size"` // 滑动窗口大小
}

// MongoSink MongoDB遥测输出
type MongoSink struct {
	URI string `yaml:"uri"`
	DB  string `yaml:"db"`
	Col string `yaml:"col"`
}

// SQLiteSink SQLite遥测输出
type SQLiteSink struct {
	Path string `yaml:"path"`
}

// Telemetry 遥测配置
type Telemetry struct {
	QueueSize         int         `yaml:"queue_size"`          // 发布队列长度，满时丢弃
	Log               bool        `yaml:"log"`                 // 输出到日志
	WebSocket         bool        `yaml:"websocket"`           // 通过/telemetry/ws推送
	Mongo             *MongoSink  `yaml:"mongo,omitempty"`     // 输出到MongoDB
	SQLite            *SQLiteSink `yaml:"sqlite,omitempty"`    // 输出到SQLite
	PublishCamera     bool        `yaml:"publish_camera"`      // 发布原始相机帧
	PublishLidar      bool        `yaml:"publish_lidar"`       // 发布原始距离扫描
	PublishPointCloud bool        `yaml:"publish_point_cloud"` // 发布点云
}

// Sim 内置仿真器配置
type Sim struct {
	Seed          uint64  `yaml:"seed"`
	LidarNoise    float64 `yaml:"lidar_noise"`    // 距离噪声标准差
	LidarDropout  float64 `yaml:"lidar_dropout"`  // 单个采样无回波的概率
	DisableCamera bool    `yaml:"disable_camera"` // 模拟相机缺失
	DisableLidar  bool    `yaml:"disable_lidar"`  // 模拟激光雷达缺失
}

// Config YAML配置文件的根结构
type Config struct {
	Input      Input      `yaml:"input"`      // 输入
	Control    Control    `yaml:"control"`    // 模拟过程控制
	Vehicle    Vehicle    `yaml:"vehicle"`    // 车辆包络
	Perception Perception `yaml:"perception"` // 感知
	PID        PID        `yaml:"pid"`        // 巡线PID
	Smoothing  Smoothing  `yaml:"smoothing"`  // 角度平滑
	Telemetry  Telemetry  `yaml:"telemetry"`  // 遥测
	Sim        Sim        `yaml:"sim"`        // 内置仿真器
}
