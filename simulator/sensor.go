package simulator

import (
	"math"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/input"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/randengine"
)

// CameraSpec 相机参数
type CameraSpec struct {
	Width  int
	Height int
	FOV    float64 // 水平视场角（弧度）
	Mount  float64 // 安装高度（米），光轴水平
}

// LidarSpec 激光雷达参数
type LidarSpec struct {
	Resolution int
	FOV        float64 // 水平视场角（弧度）
	MaxRange   float64 // 最大量程（米）
	Noise      float64 // 距离噪声标准差（米）
	Dropout    float64 // 无回波概率
}

var (
	DefaultCamera = CameraSpec{Width: 128, Height: 64, FOV: 1.0, Mount: 1.2}
	DefaultLidar  = LidarSpec{Resolution: 180, FOV: math.Pi, MaxRange: 80}

	asphalt = [4]byte{60, 60, 60, 255}
	sky     = [4]byte{235, 206, 135, 255}
)

// camera 合成相机
// 功能：按针孔模型把地面上的车道线渲染为BGRA图像
type camera struct {
	spec  CameraSpec
	color [3]uint8
	d     *Driver

	cacheStep int64
	cache     entity.CameraFrame
}

// Frame 当前步的图像，同一步内多次调用返回同一帧
func (c *camera) Frame() entity.CameraFrame {
	if c.cacheStep == c.d.steps && c.cache.Pix != nil {
		return c.cache
	}
	c.cache = c.render(c.d.pose)
	c.cacheStep = c.d.steps
	return c.cache
}

// render 渲染一帧
// 算法说明：
// 1. 地平线位于图像垂直中点，以上为天空
// 2. 地平线以下每一行对应一个前向距离 d = 安装高度 * 焦距 / (行 - 地平线)
// 3. 每一列对应横向偏移 d * (列 - 中心) / 焦距，列坐标向右增大对应车辆右侧
// 4. 地面点到车道线的距离小于半线宽时着参考颜色
func (c *camera) render(pose input.Pose) entity.CameraFrame {
	w, h := c.spec.Width, c.spec.Height
	pix := make([]byte, w*h*4)
	focal := float64(w) / 2 / math.Tan(c.spec.FOV/2)
	horizon := float64(h) / 2
	fx, fy := math.Cos(pose.Heading), math.Sin(pose.Heading)
	rx, ry := math.Sin(pose.Heading), -math.Cos(pose.Heading)
	halfWidth := c.d.scenario.LineWidth / 2
	line := [4]byte{c.color[0], c.color[1], c.color[2], 255}
	for y := 0; y < h; y++ {
		dy := float64(y) + 0.5 - horizon
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			px := sky
			if dy > 0 {
				forward := c.spec.Mount * focal / dy
				lateral := forward * (float64(x) + 0.5 - float64(w)/2) / focal
				p := input.Point{
					X: pose.X + forward*fx + lateral*rx,
					Y: pose.Y + forward*fy + lateral*ry,
				}
				if c.d.scenario.DistanceToLine(p) < halfWidth {
					px = line
				} else {
					px = asphalt
				}
			}
			copy(pix[i:i+4], px[:])
		}
	}
	return entity.CameraFrame{Width: w, Height: h, Channels: 4, FOV: c.spec.FOV, Pix: pix}
}

// lidar 合成激光雷达
// 功能：对圆形障碍物做水平射线求交，叠加高斯噪声与随机无回波
type lidar struct {
	spec LidarSpec
	rng  *randengine.Engine
	d    *Driver

	cacheStep int64
	cache     entity.RangeFrame
}

// Frame 当前步的扫描，同一步内多次调用返回同一帧
func (l *lidar) Frame() entity.RangeFrame {
	if l.cacheStep == l.d.steps && l.cache.Ranges != nil {
		return l.cache
	}
	l.cache = l.scan(l.d.pose)
	l.cacheStep = l.d.steps
	return l.cache
}

// scan 扫描一帧
// 说明：第i个采样的方位角为(i/采样数-0.5)*视场角，正值位于车辆右侧
func (l *lidar) scan(pose input.Pose) entity.RangeFrame {
	n := l.spec.Resolution
	ranges := make([]float64, n)
	for i := range ranges {
		theta := (float64(i)/float64(n) - 0.5) * l.spec.FOV
		dir := pose.Heading - theta
		r := castRay(pose.X, pose.Y, math.Cos(dir), math.Sin(dir), l.d.scenario.Obstacles)
		switch {
		case r > l.spec.MaxRange, l.rng.PTrue(l.spec.Dropout):
			ranges[i] = math.Inf(1)
		default:
			ranges[i] = math.Max(0, r+l.rng.Gaussian(l.spec.Noise))
		}
	}
	return entity.NewRangeFrame(l.spec.FOV, l.spec.MaxRange, ranges)
}

// castRay 射线与圆形障碍物的最近交点距离，无交点时为+Inf
// 参数：(ox, oy)-射线起点，(dx, dy)-单位方向向量，obstacles-障碍物
func castRay(ox, oy, dx, dy float64, obstacles []input.Obstacle) float64 {
	best := math.Inf(1)
	for _, o := range obstacles {
		// |o + t*d - c|^2 = r^2
		cx, cy := ox-o.X, oy-o.Y
		b := cx*dx + cy*dy
		c := cx*cx + cy*cy - o.Radius*o.Radius
		disc := b*b - c
		if disc < 0 {
			continue
		}
		sq := math.Sqrt(disc)
		t := -b - sq
		if t < 0 {
			t = -b + sq
		}
		if t >= 0 && t < best {
			best = t
		}
	}
	return best
}
