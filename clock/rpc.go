package clock

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName 时钟服务名
	ServiceName = "autopilot.clock.v1.ClockService"
	// NowProcedure 查询当前仿真时间
	NowProcedure = "/" + ServiceName + "/Now"
)

// Register 将ClockService注册到HTTP路由
// 功能：注册时钟服务的RPC处理器
// 参数：mux-HTTP路由
// 说明：使时钟服务可以通过RPC接口被外部访问
func (c *Clock) Register(mux *http.ServeMux) {
	mux.Handle(NowProcedure, connect.NewUnaryHandler(NowProcedure, c.Now))
}

// Now 获取当前仿真时间（秒）
// 说明：在RPC协程中调用，读取时钟发布的时间而不是T字段
func (c *Clock) Now(ctx context.Context, in *connect.Request[emptypb.Empty]) (*connect.Response[wrapperspb.DoubleValue], error) {
	return connect.NewResponse(wrapperspb.Double(c.NowSeconds())), nil
}
