package input

import "math"

const (
	defaultStraight = 60.0 // 直道长度（米）
	defaultRadius   = 25.0 // 弯道半径（米）
	defaultArcSteps = 24   // 每个弯道的折线段数
)

// DefaultScenario 内置场景
// 功能：生成一个逆时针的椭圆形跑道，下方直道中部放置一个障碍物
// 返回：场景，车辆位于下方直道起点，沿x轴正方向
// 算法说明：两段直道沿x轴，半径为defaultRadius的两个半圆弯道连接
func DefaultScenario() *Scenario {
	line := make([]Point, 0, 2*defaultArcSteps+2)
	half := defaultStraight / 2
	// 下方直道 (-half, -R) -> (half, -R)，再绕右侧半圆到 (half, R)
	for i := 0; i <= defaultArcSteps; i++ {
		a := -math.Pi/2 + math.Pi*float64(i)/defaultArcSteps
		line = append(line, Point{X: half + defaultRadius*math.Cos(a), Y: defaultRadius * math.Sin(a)})
	}
	// 上方直道 (half, R) -> (-half, R)，再绕左侧半圆回到 (-half, -R)
	for i := 0; i <= defaultArcSteps; i++ {
		a := math.Pi/2 + math.Pi*float64(i)/defaultArcSteps
		line = append(line, Point{X: -half + defaultRadius*math.Cos(a), Y: defaultRadius * math.Sin(a)})
	}
	return &Scenario{
		Name:      "default-oval",
		Line:      line,
		Closed:    true,
		LineWidth: 0.3,
		Obstacles: []Obstacle{{X: half - 5, Y: -defaultRadius + 0.5, Radius: 1}},
		Start:     Pose{X: -half, Y: -defaultRadius, Heading: 0},
	}
}
