package components

// TalkZoneComponent 地面上的通话区域
//
// 区域中心取实体 TransformComponent 的 X/Z，
// 判定为严格小于：|x-cx| < HalfExtent && |z-cz| < HalfExtent。
type TalkZoneComponent struct {
	HalfExtent float64
	Message    string // 进入区域时的通知（"Call starts"）
}
