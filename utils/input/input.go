package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v2"
)

const mongoTimeout = 10 * time.Second

// LoadScenario 加载场景
// 功能：按配置加载仿真场景
// 参数：c-输入配置
// 返回：场景，错误信息
// 算法说明：
// 1. 配置了文件：从YAML文件加载
// 2. 配置了MongoDB连接与集合：按name字段查找场景文档
// 3. 均未配置：使用内置椭圆跑道
// 4. 校验场景的合法性
func LoadScenario(c config.Input) (*Scenario, error) {
	var (
		s   *Scenario
		err error
	)
	switch {
	case c.Scenario.File != "":
		s, err = LoadScenarioFile(c.Scenario.File)
	case c.URI != "" && c.Scenario.GetColl() != "":
		s, err = loadScenarioMongo(c.URI, c.Scenario)
	default:
		log.Info("no scenario configured, use built-in default oval")
		s = DefaultScenario()
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	log.Infof("scenario %q: %d line points, %d obstacles", s.Name, len(s.Line), len(s.Obstacles))
	return s, nil
}

// LoadScenarioFile 从YAML文件加载场景
func LoadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario 解析YAML场景
// 说明：未给出线宽时默认为0.3米
func ParseScenario(data []byte) (*Scenario, error) {
	s := &Scenario{LineWidth: 0.3}
	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return s, nil
}

// loadScenarioMongo 从MongoDB加载场景
func loadScenarioMongo(uri string, path config.InputPath) (*Scenario, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	defer client.Disconnect(context.Background())
	coll := client.Database(path.GetDb()).Collection(path.GetColl())
	filter := bson.M{}
	if path.Name != "" {
		filter["name"] = path.Name
	}
	s := &Scenario{LineWidth: 0.3}
	if err := coll.FindOne(ctx, filter).Decode(s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("scenario %q not found in %s.%s", path.Name, path.GetDb(), path.GetColl())
		}
		return nil, fmt.Errorf("load scenario from mongo: %w", err)
	}
	log.Infof("scenario loaded from mongo %s.%s", path.GetDb(), path.GetColl())
	return s, nil
}

// Validate 校验场景
func (s *Scenario) Validate() error {
	if len(s.Line) < 2 {
		return errors.New("line needs at least 2 points")
	}
	if s.LineWidth <= 0 {
		return errors.New("line_width must be > 0")
	}
	for i, o := range s.Obstacles {
		if o.Radius <= 0 {
			return fmt.Errorf("obstacle %d radius must be > 0", i)
		}
	}
	return nil
}
