package entity

import "net/http"

// Manager依赖倒置

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	Init(caps Capabilities)      // 初始化
	Register(mux *http.ServeMux) // 注册远程控制服务

	Prepare()          // 准备阶段：应用操作员指令
	Update(step int32) // 更新阶段：感知、决策与执行
}
