package task

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/clock"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/simulator"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/telemetry"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/input"
)

// waitForServerReady 等待服务器就绪
// 功能：通过HTTP请求检查服务器是否已经启动并可以响应
// 参数：addr-服务器地址，retryCount-重试次数，interval-重试间隔
// 返回：错误信息，如果服务器就绪则返回nil
// 算法说明：
// 1. 创建HTTP客户端，设置超时时间
// 2. 循环发送GET请求到指定地址
// 3. 如果请求成功，关闭响应体并返回nil
// 4. 如果请求失败，等待指定间隔后重试
// 5. 达到最大重试次数后返回错误
func waitForServerReady(addr string, retryCount int, interval time.Duration) error {
	client := &http.Client{
		Timeout: interval,
	}
	for range retryCount {
		resp, err := client.Get(addr)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("server `%v` did not become ready after %d retries", addr, retryCount)
}

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：管理时钟、仿真器、遥测、车辆控制管理器与远程控制服务
type Context struct {
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 仿真器
	driver *simulator.Driver
	// 遥测
	telemetry *telemetry.Output
	// 车辆控制管理器
	vehicleManager *vehicle.VehicleManager

	// 远程控制服务
	mux    *http.ServeMux
	server *http.Server
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：c-配置对象，listen-远程控制服务监听地址（为空则不启动服务）
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 初始化时钟与运行时配置
// 2. 加载场景并创建仿真器
// 3. 创建遥测输出
// 4. 创建车辆控制管理器
// 5. 注册RPC服务与旧版GET接口，启动HTTP服务
func NewContext(c config.Config, listen string) *Context {
	ctx := &Context{
		mux: http.NewServeMux(),
	}
	ctx.clock = clock.New(c.Control.Step)
	ctx.runtimeConfig = config.NewRuntimeConfig(c)

	scenario, err := input.LoadScenario(c.Input)
	if err != nil {
		log.Panicf("failed to load scenario: %v", err)
	}
	ctx.driver = simulator.New(scenario, c)

	ctx.telemetry, err = telemetry.New(c.Telemetry, ctx.clock.NowSeconds)
	if err != nil {
		log.Panicf("failed to init telemetry: %v", err)
	}

	ctx.vehicleManager = vehicle.NewManager(ctx)

	ctx.clock.Register(ctx.mux)
	ctx.vehicleManager.Register(ctx.mux)
	if ctx.telemetry.Room != nil {
		ctx.mux.Handle("/telemetry/ws", ctx.telemetry.Room)
	}
	ctx.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})

	if listen != "" {
		ctx.serve(listen)
	}
	return ctx
}

// serve 启动HTTP服务协程
func (ctx *Context) serve(listen string) {
	lis, err := net.Listen("tcp", listen)
	if err != nil {
		log.Panicf("failed to listen on %s: %v", listen, err)
	}
	ctx.server = &http.Server{Handler: ctx.mux}
	go func() {
		if err := ctx.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("failed to serve: %v", err)
		}
	}()
	if err := waitForServerReady("http://"+lis.Addr().String()+"/healthz", 10, 100*time.Millisecond); err != nil {
		log.Panicf("%v", err)
	}
	log.Infof("remote control listening on %s", lis.Addr())
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Driver() entity.IDriver {
	return ctx.driver
}

func (ctx *Context) Telemetry() entity.ITelemetry {
	return ctx.telemetry
}

// Simulator 内置仿真器（查询位姿与碰撞次数）
func (ctx *Context) Simulator() *simulator.Driver {
	return ctx.driver
}

// VehicleManager 车辆控制管理器
func (ctx *Context) VehicleManager() *vehicle.VehicleManager {
	return ctx.vehicleManager
}

// TelemetryOutput 遥测输出
func (ctx *Context) TelemetryOutput() *telemetry.Output {
	return ctx.telemetry
}

// Handler 远程控制服务的HTTP处理器
func (ctx *Context) Handler() http.Handler {
	return ctx.mux
}

// Init 初始化
// 说明：启动时检查一次传感器能力，下游组件只依据检查结果判断传感器是否可用
func (ctx *Context) Init() {
	ctx.clock.Init()
	caps := ctx.driver.Capabilities()
	log.Infof("capabilities: %v", caps)
	ctx.vehicleManager.Init(caps)
}

// Stop 请求在当前步结束后退出
func (ctx *Context) Stop() {
	ctx.closed.Store(true)
}

// Close 关闭HTTP服务并等待遥测输出完毕
func (ctx *Context) Close() {
	if ctx.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := ctx.server.Shutdown(shutdownCtx); err != nil {
			log.Warnf("server shutdown: %v", err)
		}
	}
	ctx.telemetry.Close()
	if n := ctx.telemetry.Dropped(); n > 0 {
		log.Warnf("telemetry dropped %d records", n)
	}
}
