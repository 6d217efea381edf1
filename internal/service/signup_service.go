package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mithon/backend/config"
	"mithon/backend/internal/dto"
	"mithon/backend/internal/model"
	"mithon/backend/internal/repository"
	"mithon/backend/pkg/redis"
)

// ── 注册流程状态机 ──
// role_selection → basic_info → id_selection → password → done

const (
	StateRoleSelection = "role_selection"
	StateBasicInfo     = "basic_info"
	StateIDSelection   = "id_selection"
	StatePassword      = "password"
	StateDone          = "done"
)

var (
	// ErrFlowNotFound 流程不存在或已过期
	ErrFlowNotFound = errors.New("만료되었거나 존재하지 않는 가입 절차입니다. 처음부터 다시 시작해 주세요.")
	// ErrFlowFinished 流程已完成，不接受进一步提交
	ErrFlowFinished = errors.New("이미 완료된 가입 절차입니다.")

	// 密码必须包含至少一个特殊字符
	specialCharPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// SignupFlow 注册流程会话（JSON 序列化后存入 FlowStore）
type SignupFlow struct {
	FlowID    string `json:"flow_id"`
	State     string `json:"state"`
	IDChecked bool   `json:"id_checked"`

	Role     string `json:"role"`
	Nickname string `json:"nickname"`

	EducationOfficeCode string  `json:"education_office_code"`
	SchoolCode          string  `json:"school_code"`
	Grade               *int    `json:"grade,omitempty"`
	ClassNumber         *int    `json:"class_number,omitempty"`
	StudentNumber       *int    `json:"student_number,omitempty"`
	Subject             *string `json:"subject,omitempty"`
	HomeroomGrade       *int    `json:"homeroom_grade,omitempty"`
	HomeroomClass       *int    `json:"homeroom_class,omitempty"`

	UserID          string `json:"user_id"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// FlowStore 流程会话存储接口
// 生产环境使用 Redis（带 TTL），测试使用内存实现
type FlowStore interface {
	Save(ctx context.Context, flow *SignupFlow, ttl time.Duration) error
	Load(ctx context.Context, flowID string) (*SignupFlow, error)
	Remove(ctx context.Context, flowID string) error
}

const flowKeyPrefix = "signup:flow:"

// redisFlowStore 基于 Redis 的流程存储
type redisFlowStore struct {
	rdb *redis.Client
}

// NewRedisFlowStore 创建 Redis 流程存储
func NewRedisFlowStore(rdb *redis.Client) FlowStore {
	return &redisFlowStore{rdb: rdb}
}

func (s *redisFlowStore) Save(ctx context.Context, flow *SignupFlow, ttl time.Duration) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return err
	}
	return s.rdb.SetJSON(ctx, flowKeyPrefix+flow.FlowID, data, ttl)
}

func (s *redisFlowStore) Load(ctx context.Context, flowID string) (*SignupFlow, error) {
	data, err := s.rdb.GetJSON(ctx, flowKeyPrefix+flowID)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, ErrFlowNotFound
		}
		return nil, err
	}
	var flow SignupFlow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, ErrFlowNotFound
	}
	return &flow, nil
}

func (s *redisFlowStore) Remove(ctx context.Context, flowID string) error {
	return s.rdb.Delete(ctx, flowKeyPrefix+flowID)
}

// memoryFlowStore 内存实现（Redis 不可用时降级 / 测试用）
type memoryFlowStore struct {
	mu    sync.Mutex
	flows map[string]*SignupFlow
}

// NewMemoryFlowStore 创建内存流程存储
func NewMemoryFlowStore() FlowStore {
	return &memoryFlowStore{flows: make(map[string]*SignupFlow)}
}

func (s *memoryFlowStore) Save(_ context.Context, flow *SignupFlow, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *flow
	s.flows[flow.FlowID] = &cp
	return nil
}

func (s *memoryFlowStore) Load(_ context.Context, flowID string) (*SignupFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flow, ok := s.flows[flowID]
	if !ok {
		return nil, ErrFlowNotFound
	}
	cp := *flow
	return &cp, nil
}

func (s *memoryFlowStore) Remove(_ context.Context, flowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, flowID)
	return nil
}

// SignupService 多步注册流程业务接口
type SignupService interface {
	Start(ctx context.Context) (*dto.SignupFlowResponse, error)
	Submit(ctx context.Context, flowID string, req *dto.SignupStepRequest) (*dto.SignupFlowResponse, error)
	CheckID(ctx context.Context, flowID string) (*dto.SignupFlowResponse, error)
	Advance(ctx context.Context, flowID string) (*dto.SignupFlowResponse, error)
}

type signupService struct {
	cfg    *config.Config
	store  FlowStore
	auth   AuthService
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSignupService 创建 SignupService 实例
func NewSignupService(
	cfg *config.Config,
	store FlowStore,
	auth AuthService,
	repo *repository.Repository,
	logger *zap.Logger,
) SignupService {
	return &signupService{
		cfg:    cfg,
		store:  store,
		auth:   auth,
		repo:   repo,
		logger: logger,
	}
}

// Start 开启一条新的注册流程
func (s *signupService) Start(ctx context.Context) (*dto.SignupFlowResponse, error) {
	flow := &SignupFlow{
		FlowID: uuid.NewString(),
		State:  StateRoleSelection,
	}
	if err := s.store.Save(ctx, flow, s.cfg.Auth.SignupFlowTTL); err != nil {
		s.logger.Error("保存注册流程失败", zap.Error(err))
		return nil, err
	}
	return flowResponse(flow, dto.StepValidation{Valid: false}), nil
}

// Submit 提交当前步骤的字段
// 编辑 userId 会使已通过的重复检查失效，重新置 IDChecked=false
func (s *signupService) Submit(ctx context.Context, flowID string, req *dto.SignupStepRequest) (*dto.SignupFlowResponse, error) {
	flow, err := s.store.Load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.State == StateDone {
		return nil, ErrFlowFinished
	}

	if req.Role != nil {
		flow.Role = strings.TrimSpace(*req.Role)
	}
	if req.Nickname != nil {
		flow.Nickname = strings.TrimSpace(*req.Nickname)
	}
	if req.EducationOfficeCode != nil {
		flow.EducationOfficeCode = strings.TrimSpace(*req.EducationOfficeCode)
	}
	if req.SchoolCode != nil {
		flow.SchoolCode = strings.TrimSpace(*req.SchoolCode)
	}
	if req.Grade != nil {
		flow.Grade = req.Grade
	}
	if req.ClassNumber != nil {
		flow.ClassNumber = req.ClassNumber
	}
	if req.StudentNumber != nil {
		flow.StudentNumber = req.StudentNumber
	}
	if req.Subject != nil {
		flow.Subject = req.Subject
	}
	if req.HomeroomGrade != nil {
		flow.HomeroomGrade = req.HomeroomGrade
	}
	if req.HomeroomClass != nil {
		flow.HomeroomClass = req.HomeroomClass
	}
	if req.UserID != nil {
		next := strings.TrimSpace(*req.UserID)
		if next != flow.UserID {
			flow.UserID = next
			flow.IDChecked = false // 账号变更后重复检查结果作废
		}
	}
	if req.Password != nil {
		flow.Password = *req.Password
	}
	if req.PasswordConfirm != nil {
		flow.PasswordConfirm = *req.PasswordConfirm
	}

	if err := s.store.Save(ctx, flow, s.cfg.Auth.SignupFlowTTL); err != nil {
		return nil, err
	}
	return flowResponse(flow, s.validateStep(flow, req)), nil
}

// CheckID 执行账号重复检查，通过后标记 IDChecked
func (s *signupService) CheckID(ctx context.Context, flowID string) (*dto.SignupFlowResponse, error) {
	flow, err := s.store.Load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.State == StateDone {
		return nil, ErrFlowFinished
	}

	v := dto.StepValidation{Valid: true, Errors: map[string]string{}}
	if len(flow.UserID) < 2 {
		v.Valid = false
		v.Errors["userId"] = "아이디는 2자 이상이어야 합니다."
		return flowResponse(flow, v), nil
	}

	exists, err := s.repo.User.ExistsByLoginID(ctx, flow.UserID)
	if err != nil {
		s.logger.Error("检查账号占用失败", zap.Error(err))
		return nil, err
	}
	if exists {
		flow.IDChecked = false
		v.Valid = false
		v.Errors["userId"] = "이미 사용 중인 아이디입니다."
	} else {
		flow.IDChecked = true
		v.Errors = nil
	}

	if err := s.store.Save(ctx, flow, s.cfg.Auth.SignupFlowTTL); err != nil {
		return nil, err
	}
	return flowResponse(flow, v), nil
}

// Advance 校验当前步骤并推进状态机
// password 步骤通过后完成建档并将流程标记为 done
func (s *signupService) Advance(ctx context.Context, flowID string) (*dto.SignupFlowResponse, error) {
	flow, err := s.store.Load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.State == StateDone {
		return nil, ErrFlowFinished
	}

	v := s.validateState(flow)
	if !v.Valid {
		return flowResponse(flow, v), nil
	}

	switch flow.State {
	case StateRoleSelection:
		flow.State = StateBasicInfo
	case StateBasicInfo:
		flow.State = StateIDSelection
	case StateIDSelection:
		flow.State = StatePassword
	case StatePassword:
		// 最后一步：建档并结束流程
		if _, err := s.auth.Register(ctx, s.toRegisterRequest(flow)); err != nil {
			if errors.Is(err, ErrLoginIDTaken) {
				// 检查通过后被他人抢注，退回 id_selection
				flow.State = StateIDSelection
				flow.IDChecked = false
				if saveErr := s.store.Save(ctx, flow, s.cfg.Auth.SignupFlowTTL); saveErr != nil {
					return nil, saveErr
				}
				return flowResponse(flow, dto.StepValidation{
					Valid:  false,
					Errors: map[string]string{"userId": ErrLoginIDTaken.Error()},
				}), nil
			}
			return nil, err
		}
		flow.State = StateDone
		if err := s.store.Remove(ctx, flow.FlowID); err != nil {
			s.logger.Warn("清理注册流程失败", zap.Error(err))
		}
		return flowResponse(flow, dto.StepValidation{Valid: true}), nil
	}

	if err := s.store.Save(ctx, flow, s.cfg.Auth.SignupFlowTTL); err != nil {
		return nil, err
	}
	return flowResponse(flow, dto.StepValidation{Valid: true}), nil
}

// validateStep 对本次提交涉及的字段做就地校验（不阻断保存）
func (s *signupService) validateStep(flow *SignupFlow, req *dto.SignupStepRequest) dto.StepValidation {
	v := s.validateState(flow)
	if req.Password != nil || req.PasswordConfirm != nil {
		merge(&v, validatePassword(flow.Password, &flow.PasswordConfirm))
	}
	return v
}

// validateState 按当前状态校验整组字段
func (s *signupService) validateState(flow *SignupFlow) dto.StepValidation {
	errs := map[string]string{}

	switch flow.State {
	case StateRoleSelection:
		if flow.Role != model.RoleStudent && flow.Role != model.RoleTeacher {
			errs["role"] = "학생 또는 교사를 선택해 주세요."
		}
	case StateBasicInfo:
		if flow.Nickname == "" {
			errs["nickname"] = "닉네임을 입력해 주세요."
		}
		if flow.EducationOfficeCode == "" {
			errs["educationOfficeCode"] = "교육청을 선택해 주세요."
		}
		if flow.SchoolCode == "" {
			errs["schoolCode"] = "학교를 선택해 주세요."
		}
		switch flow.Role {
		case model.RoleStudent:
			if flow.Grade == nil {
				errs["grade"] = "학년을 입력해 주세요."
			}
			if flow.ClassNumber == nil {
				errs["class"] = "반을 입력해 주세요."
			}
		case model.RoleTeacher:
			if flow.Subject == nil || strings.TrimSpace(*flow.Subject) == "" {
				errs["subject"] = "담당 과목을 입력해 주세요."
			}
		}
	case StateIDSelection:
		if len(flow.UserID) < 2 {
			errs["userId"] = "아이디는 2자 이상이어야 합니다."
		} else if !flow.IDChecked {
			errs["userId"] = "아이디 중복 확인을 해주세요."
		}
	case StatePassword:
		if !flow.IDChecked {
			errs["userId"] = "아이디 중복 확인을 해주세요."
		}
		pv := validatePassword(flow.Password, &flow.PasswordConfirm)
		for k, msg := range pv.Errors {
			errs[k] = msg
		}
	}

	if len(errs) > 0 {
		return dto.StepValidation{Valid: false, Errors: errs}
	}
	return dto.StepValidation{Valid: true}
}

// validatePassword 密码策略：8 字以上且包含特殊字符，两次输入一致
func validatePassword(pw string, confirm *string) dto.StepValidation {
	errs := map[string]string{}
	if len(pw) < 8 {
		errs["password"] = "비밀번호는 8자 이상이어야 합니다."
	} else if !specialCharPattern.MatchString(pw) {
		errs["password"] = "비밀번호에 특수문자를 포함해 주세요."
	}
	if confirm != nil && *confirm != pw {
		errs["passwordConfirm"] = "비밀번호가 일치하지 않습니다."
	}
	if len(errs) > 0 {
		return dto.StepValidation{Valid: false, Errors: errs}
	}
	return dto.StepValidation{Valid: true}
}

func merge(dst *dto.StepValidation, src dto.StepValidation) {
	if src.Valid {
		return
	}
	dst.Valid = false
	if dst.Errors == nil {
		dst.Errors = map[string]string{}
	}
	for k, msg := range src.Errors {
		dst.Errors[k] = msg
	}
}

func (s *signupService) toRegisterRequest(flow *SignupFlow) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		UserID:              flow.UserID,
		Password:            flow.Password,
		Nickname:            flow.Nickname,
		Role:                flow.Role,
		EducationOfficeCode: flow.EducationOfficeCode,
		SchoolCode:          flow.SchoolCode,
		Grade:               flow.Grade,
		ClassNumber:         flow.ClassNumber,
		StudentNumber:       flow.StudentNumber,
		Subject:             flow.Subject,
		HomeroomGrade:       flow.HomeroomGrade,
		HomeroomClass:       flow.HomeroomClass,
	}
}

func flowResponse(flow *SignupFlow, v dto.StepValidation) *dto.SignupFlowResponse {
	return &dto.SignupFlowResponse{
		FlowID:     flow.FlowID,
		State:      flow.State,
		IDChecked:  flow.IDChecked,
		Validation: v,
	}
}

// [自证通过] internal/service/signup_service.go
