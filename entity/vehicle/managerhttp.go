package vehicle

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/tsinghua-fib-lab/autopilot-sim-oss/entity"
)

// registerLegacy 注册兼容旧版的GET接口
// 说明：设置类接口与RPC共用指令队列，返回文本中的数值为限幅后的生效值；
// 读取类接口返回最近一步仿真器报告的实际值
func (m *VehicleManager) registerLegacy(mux *http.ServeMux) {
	mux.HandleFunc("GET /stop", func(w http.ResponseWriter, r *http.Request) {
		m.state.Submit(Command{Kind: CommandStop})
		fmt.Fprint(w, "stopped")
	})
	mux.HandleFunc("GET /start", func(w http.ResponseWriter, r *http.Request) {
		m.state.Submit(Command{Kind: CommandStart, Value: m.startSpeed})
		fmt.Fprint(w, "started")
	})
	mux.HandleFunc("GET /getSteeringAngle", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, formatFloat(m.state.Snapshot().ActualSteering))
	})
	mux.HandleFunc("GET /setSteeringAngle/{angle}", m.legacySetter("angle", CommandSetSteering, "Steering angle set to "))
	mux.HandleFunc("GET /getBrakeIntensity", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, formatFloat(m.state.Snapshot().ActualBrake))
	})
	mux.HandleFunc("GET /setBrakeIntensity/{intensity}", m.legacySetter("intensity", CommandSetBrake, "Brake intensity set to "))
	mux.HandleFunc("GET /getSpeed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, formatFloat(m.state.Snapshot().ActualSpeed))
	})
	mux.HandleFunc("GET /setSpeed/{speed}", m.legacySetter("speed", CommandSetSpeed, "Speed set to "))
	mux.HandleFunc("GET /getIndicator", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, m.state.Snapshot().Indicator.String())
	})
	for _, ind := range []entity.Indicator{entity.IndicatorOff, entity.IndicatorRight, entity.IndicatorLeft} {
		mux.HandleFunc("GET /setIndicator"+ind.String(), func(w http.ResponseWriter, r *http.Request) {
			m.state.Submit(Command{Kind: CommandSetIndicator, Indicator: ind})
			fmt.Fprint(w, "Indicator set to "+ind.String())
		})
	}
}

// legacySetter 带数值路径参数的设置接口
// 参数：name-路径参数名，kind-指令类型，prefix-返回文本前缀
// 说明：无法解析的数值与NaN返回400，状态不变；±Inf按包络限幅
func (m *VehicleManager) legacySetter(name string, kind CommandKind, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := strconv.ParseFloat(r.PathValue(name), 64)
		if err != nil || math.IsNaN(v) {
			http.Error(w, fmt.Sprintf("invalid %s %q", name, r.PathValue(name)), http.StatusBadRequest)
			return
		}
		cmd := m.state.Submit(Command{Kind: kind, Value: v})
		fmt.Fprint(w, prefix+formatFloat(cmd.Value))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
