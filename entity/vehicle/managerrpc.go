package vehicle

import (
	"context"
	"errors"
	"math"
	"net/http"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "autopilot.vehicle.v1.VehicleControlService"

	GetStateProcedure          = "/" + ServiceName + "/GetState"
	SetSpeedProcedure          = "/" + ServiceName + "/SetSpeed"
	SetSteeringAngleProcedure  = "/" + ServiceName + "/SetSteeringAngle"
	SetBrakeIntensityProcedure = "/" + ServiceName + "/SetBrakeIntensity"
	SetIndicatorProcedure      = "/" + ServiceName + "/SetIndicator"
	StartProcedure             = "/" + ServiceName + "/Start"
	StopProcedure              = "/" + ServiceName + "/Stop"
)

var errNotANumber = errors.New("value must be a number")

// Register 注册远程控制服务
// 功能：将车辆控制RPC服务与兼容旧版的GET接口挂载到mux
// 参数：mux-HTTP路由
// 说明：RPC使用connect协议，消息均为protobuf通用类型
func (m *VehicleManager) Register(mux *http.ServeMux) {
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, m.GetState))
	mux.Handle(SetSpeedProcedure, connect.NewUnaryHandler(SetSpeedProcedure, m.SetSpeed))
	mux.Handle(SetSteeringAngleProcedure, connect.NewUnaryHandler(SetSteeringAngleProcedure, m.SetSteeringAngle))
	mux.Handle(SetBrakeIntensityProcedure, connect.NewUnaryHandler(SetBrakeIntensityProcedure, m.SetBrakeIntensity))
	mux.Handle(SetIndicatorProcedure, connect.NewUnaryHandler(SetIndicatorProcedure, m.SetIndicator))
	mux.Handle(StartProcedure, connect.NewUnaryHandler(StartProcedure, m.Start))
	mux.Handle(StopProcedure, connect.NewUnaryHandler(StopProcedure, m.Stop))
	m.registerLegacy(mux)
}

// GetState RPC接口：获取控制器状态
// 返回：包含转角、速度、制动、转向灯与步数的结构体
func (m *VehicleManager) GetState(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s := m.state.Snapshot()
	out, err := structpb.NewStruct(map[string]any{
		"steering_angle":  s.SteeringAngle,
		"target_steering": s.TargetSteering,
		"speed":           s.Speed,
		"brake_intensity": s.BrakeIntensity,
		"indicator":       s.Indicator.String(),
		"actual_speed":    s.ActualSpeed,
		"actual_steering": s.ActualSteering,
		"actual_brake":    s.ActualBrake,
		"step":            float64(s.Step),
		"mode":            m.mode.String(),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

// submitValue 校验并提交带数值的指令
func (m *VehicleManager) submitValue(kind CommandKind, v float64) (*connect.Response[wrapperspb.DoubleValue], error) {
	if math.IsNaN(v) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNotANumber)
	}
	cmd := m.state.Submit(Command{Kind: kind, Value: v})
	return connect.NewResponse(wrapperspb.Double(cmd.Value)), nil
}

// SetSpeed RPC接口：设置巡航速度
// 返回：限制到[0, 最大速度]后的速度
func (m *VehicleManager) SetSpeed(
	ctx context.Context, in *connect.Request[wrapperspb.DoubleValue],
) (*connect.Response[wrapperspb.DoubleValue], error) {
	return m.submitValue(CommandSetSpeed, in.Msg.GetValue())
}

// SetSteeringAngle RPC接口：设置期望转角
// 返回：限制到转角范围后的期望转角
// 说明：实际转角每步仍受变化量限制
func (m *VehicleManager) SetSteeringAngle(
	ctx context.Context, in *connect.Request[wrapperspb.DoubleValue],
) (*connect.Response[wrapperspb.DoubleValue], error) {
	return m.submitValue(CommandSetSteering, in.Msg.GetValue())
}

// SetBrakeIntensity RPC接口：设置制动强度
// 返回：限制到[0, 最大制动强度]后的制动强度
func (m *VehicleManager) SetBrakeIntensity(
	ctx context.Context, in *connect.Request[wrapperspb.DoubleValue],
) (*connect.Response[wrapperspb.DoubleValue], error) {
	return m.submitValue(CommandSetBrake, in.Msg.GetValue())
}

// SetIndicator RPC接口：设置转向灯（Off/Right/Left）
func (m *VehicleManager) SetIndicator(
	ctx context.Context, in *connect.Request[wrapperspb.StringValue],
) (*connect.Response[wrapperspb.StringValue], error) {
	ind, err := entity.ParseIndicator(in.Msg.GetValue())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	m.state.Submit(Command{Kind: CommandSetIndicator, Indicator: ind})
	return connect.NewResponse(wrapperspb.String(ind.String())), nil
}

// Start RPC接口：以启动速度出发
func (m *VehicleManager) Start(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[wrapperspb.DoubleValue], error) {
	cmd := m.state.Submit(Command{Kind: CommandStart, Value: m.startSpeed})
	return connect.NewResponse(wrapperspb.Double(cmd.Value)), nil
}

// Stop RPC接口：速度与期望转角置0
func (m *VehicleManager) Stop(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[emptypb.Empty], error) {
	m.state.Submit(Command{Kind: CommandStop})
	return connect.NewResponse(&emptypb.Empty{}), nil
}
