package model

import "time"

// CalendarEvent 个人日历事件表 — 对应 calendar_events
// EventID 为创建时刻派生的毫秒时间戳整数（与前端本地事件 id 同构），
// 按（用户, 事件 id）联合主键
type CalendarEvent struct {
	EventID   int64     `gorm:"primaryKey;autoIncrement:false"       json:"id"`
	UserID    string    `gorm:"type:uuid;primaryKey"                 json:"-"`
	EventDate string    `gorm:"type:varchar(10);not null;index"      json:"date"` // YYYY-MM-DD
	Title     string    `gorm:"type:varchar(100);not null"           json:"title"`
	EventTime string    `gorm:"type:varchar(5);not null"             json:"time"` // HH:MM
	Category  string    `gorm:"type:varchar(20);not null;default:'personal'" json:"category"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"-"`
}

// TableName 指定表名
func (CalendarEvent) TableName() string { return "calendar_events" }

// [自证通过] internal/model/calendar_event.go
