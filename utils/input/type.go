package input

import "math"

// Point 平面坐标（米）
type Point struct {
	X float64 `yaml:"x" bson:"x"`
	Y float64 `yaml:"y" bson:"y"`
}

// Pose 车辆位姿
type Pose struct {
	X       float64 `yaml:"x" bson:"x"`
	Y       float64 `yaml:"y" bson:"y"`
	Heading float64 `yaml:"heading" bson:"heading"` // 航向角（弧度），x轴正方向为0，逆时针为正
}

// Obstacle 圆形障碍物
type Obstacle struct {
	X      float64 `yaml:"x" bson:"x"`
	Y      float64 `yaml:"y" bson:"y"`
	Radius float64 `yaml:"radius" bson:"radius"`
}

// Scenario 仿真场景
// 功能：描述车道线、障碍物与车辆初始位姿
// 说明：车道线为折线，Closed为true时首尾相连
type Scenario struct {
	Name      string     `yaml:"name" bson:"name"`
	Line      []Point    `yaml:"line" bson:"line"`             // 车道线折线
	Closed    bool       `yaml:"closed" bson:"closed"`         // 车道线是否闭合
	LineWidth float64    `yaml:"line_width" bson:"line_width"` // 车道线宽度（米）
	Obstacles []Obstacle `yaml:"obstacles" bson:"obstacles"`
	Start     Pose       `yaml:"start" bson:"start"`
}

// Segments 车道线的全部线段
func (s *Scenario) Segments() [][2]Point {
	n := len(s.Line)
	if n < 2 {
		return nil
	}
	segs := make([][2]Point, 0, n)
	for i := 0; i+1 < n; i++ {
		segs = append(segs, [2]Point{s.Line[i], s.Line[i+1]})
	}
	if s.Closed {
		segs = append(segs, [2]Point{s.Line[n-1], s.Line[0]})
	}
	return segs
}

// DistanceToLine 点到车道线的最短距离
func (s *Scenario) DistanceToLine(p Point) float64 {
	best := math.Inf(1)
	for _, seg := range s.Segments() {
		best = math.Min(best, distanceToSegment(p, seg[0], seg[1]))
	}
	return best
}

// distanceToSegment 点到线段的距离
func distanceToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
