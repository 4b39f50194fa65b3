package telemetry

import (
	"encoding/json"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
)

// 遥测主题
const (
	TopicCarSensor       = "CarSensorData"
	TopicCamera          = "CameraImageRawData"
	TopicLidarRange      = "LidarRangeImageRawData"
	TopicLidarPointCloud = "LidarPointCloudRawData"
)

// CarSensorRecord 车辆传感器记录
// 功能：检测到障碍物的控制步输出的感知与控制结果
// 说明：缺失的角度编码为null
type CarSensorRecord struct {
	LineAngle        entity.Angle `json:"yellow_line_angle"`
	ObstacleDistance float64      `json:"obstacle_distance"`
	ObstacleAngle    entity.Angle `json:"obstacle_angle"`
	Brake            float64      `json:"brake"`
	Speed            float64      `json:"speed"`
	SteeringAngle    float64      `json:"steering_angle"`
}

// Envelope 遥测消息信封
// 格式：{"channel": topic, "data": {topic: payload}, "topic": topic}
type Envelope struct {
	Channel string                     `json:"channel"`
	Data    map[string]json.RawMessage `json:"data"`
	Topic   string                     `json:"topic"`
}

// Record 一条待输出的遥测记录
type Record struct {
	Key     string  // 记录键（步数）
	Topic   string  // 主题
	Time    float64 // 仿真时间（秒）
	Payload []byte  // 原始负载
}

// NewEnvelope 用主题与负载构造信封
// 说明：负载不是合法JSON时按字符串写入
func NewEnvelope(topic string, payload []byte) Envelope {
	data := json.RawMessage(payload)
	if !json.Valid(payload) {
		data, _ = json.Marshal(string(payload))
	}
	return Envelope{
		Channel: topic,
		Data:    map[string]json.RawMessage{topic: data},
		Topic:   topic,
	}
}

// Encode 编码信封
func (r Record) Encode() ([]byte, error) {
	return json.Marshal(NewEnvelope(r.Topic, r.Payload))
}
