package calendar

import (
	"testing"
	"time"
)

func TestMonthGrid_Shape(t *testing.T) {
	// 覆盖不同起始星期与月长（含闰年二月）
	cursors := []time.Time{
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	for _, cursor := range cursors {
		cells := MonthGrid(cursor, today)

		if len(cells) != GridSize {
			t.Fatalf("cursor=%v: 期望 %d 格，实际 %d", cursor, GridSize, len(cells))
		}
		if cells[0].Weekday != 0 {
			t.Errorf("cursor=%v: 首格应为周日，实际 weekday=%d", cursor, cells[0].Weekday)
		}

		// 日期必须连续无跳变
		prev, err := time.Parse("2006-01-02", cells[0].Date)
		if err != nil {
			t.Fatalf("首格日期解析失败: %v", err)
		}
		for i := 1; i < len(cells); i++ {
			cur, err := time.Parse("2006-01-02", cells[i].Date)
			if err != nil {
				t.Fatalf("第 %d 格日期解析失败: %v", i, err)
			}
			if cur.Sub(prev) != 24*time.Hour {
				t.Errorf("cursor=%v: 第 %d 格日期不连续 (%s → %s)", cursor, i, prev.Format("2006-01-02"), cells[i].Date)
			}
			prev = cur
		}
	}
}

func TestMonthGrid_DerivedFlags(t *testing.T) {
	cursor := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	cells := MonthGrid(cursor, today)

	todayCount := 0
	for _, cell := range cells {
		if cell.Today {
			todayCount++
			if cell.Date != "2025-10-15" {
				t.Errorf("Today 标记错位: %s", cell.Date)
			}
		}
		inMonth := cell.Date >= "2025-10-01" && cell.Date <= "2025-10-31"
		if cell.OtherMonth == inMonth {
			t.Errorf("OtherMonth 派生错误: date=%s otherMonth=%v", cell.Date, cell.OtherMonth)
		}
	}
	if todayCount != 1 {
		t.Errorf("期望恰好 1 个 Today 格，实际 %d", todayCount)
	}

	// 2025-10-01 是周三，首格应为 2025-09-28（周日）
	if cells[0].Date != "2025-09-28" {
		t.Errorf("首格应为 2025-09-28，实际 %s", cells[0].Date)
	}
}
