package dto

// ── 用户模块 DTO ──

// ProfileResponse 用户档案响应
// 角色字段按需出现：学生为 grade/class/studentNumber，
// 教师为 subject/homeroomGrade/homeroomClass
type ProfileResponse struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`

	EducationOfficeCode string `json:"educationOfficeCode"`
	SchoolCode          string `json:"schoolCode"`

	Grade         *int `json:"grade,omitempty"`
	ClassNumber   *int `json:"class,omitempty"`
	StudentNumber *int `json:"studentNumber,omitempty"`

	Subject       *string `json:"subject,omitempty"`
	HomeroomGrade *int    `json:"homeroomGrade,omitempty"`
	HomeroomClass *int    `json:"homeroomClass,omitempty"`
}

// UpdateProfileRequest 档案编辑请求（仅允许修改基础字段）
type UpdateProfileRequest struct {
	Nickname            *string `json:"nickname"            binding:"omitempty,min=1,max=50"`
	EducationOfficeCode *string `json:"educationOfficeCode" binding:"omitempty,max=10"`
	SchoolCode          *string `json:"schoolCode"          binding:"omitempty,max=10"`

	Grade         *int `json:"grade"         binding:"omitempty,min=1,max=6"`
	ClassNumber   *int `json:"class"         binding:"omitempty,min=1,max=30"`
	StudentNumber *int `json:"studentNumber" binding:"omitempty,min=1,max=60"`

	Subject       *string `json:"subject"       binding:"omitempty,max=50"`
	HomeroomGrade *int    `json:"homeroomGrade" binding:"omitempty,min=1,max=6"`
	HomeroomClass *int    `json:"homeroomClass" binding:"omitempty,min=1,max=30"`
}

// StudentSummary 班级名单中的学生条目
type StudentSummary struct {
	UserID        string `json:"userId"`
	Nickname      string `json:"nickname"`
	StudentNumber *int   `json:"studentNumber,omitempty"`
	Grade         *int   `json:"grade,omitempty"`
	ClassNumber   *int   `json:"class,omitempty"`
}

// StudentListResponse 班级名单响应
type StudentListResponse struct {
	Students []StudentSummary `json:"students"`
}

// [自证通过] internal/dto/user.go
