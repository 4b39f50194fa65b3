package entity

import (
	"encoding/json"
	"fmt"
)

// UnknownSentinel 旧版数据格式中表示“本步无证据”的哨兵值
// 说明：仅用于与外部数据格式互通，内部统一使用Angle的可选语义
const UnknownSentinel = 99999.99

// Angle 可选角度（弧度）
// 功能：表示一个可能缺失的角度估计，缺失即“本步无证据”
// 说明：缺失是一等值而不是错误，沿着滤波、PID与仲裁逐级传播而不会panic
type Angle struct {
	v  float64 // 角度值（弧度），仅在ok为true时有意义
	ok bool    // 是否存在有效估计
}

// Unknown 缺失的角度
var Unknown = Angle{}

// Known 构造有效角度
// 功能：将一个弧度值包装为有效的角度估计
// 参数：v-角度（弧度）
// 返回：有效的Angle
func Known(v float64) Angle {
	return Angle{v: v, ok: true}
}

// FromSentinel 从旧版哨兵编码转换
// 功能：把可能等于UnknownSentinel的浮点数转换为Angle
// 参数：v-浮点数，等于UnknownSentinel时视为缺失
// 返回：对应的Angle
func FromSentinel(v float64) Angle {
	if v == UnknownSentinel {
		return Unknown
	}
	return Known(v)
}

// Value 获取角度值与有效标志
func (a Angle) Value() (float64, bool) {
	return a.v, a.ok
}

// IsKnown 是否为有效角度
func (a Angle) IsKnown() bool {
	return a.ok
}

// Or 有效时返回角度值，否则返回def
func (a Angle) Or(def float64) float64 {
	if a.ok {
		return a.v
	}
	return def
}

func (a Angle) String() string {
	if !a.ok {
		return "UNKNOWN"
	}
	return fmt.Sprintf("%.4f", a.v)
}

// MarshalJSON 缺失角度编码为null
func (a Angle) MarshalJSON() ([]byte, error) {
	if !a.ok {
		return []byte("null"), nil
	}
	return json.Marshal(a.v)
}

// UnmarshalJSON null与哨兵值均解码为缺失
func (a *Angle) UnmarshalJSON(b []byte) error {
	var raw *float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*a = Unknown
		return nil
	}
	*a = FromSentinel(*raw)
	return nil
}
