package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"mithon/backend/internal/model"
	"mithon/backend/internal/repository"
	apperrors "mithon/backend/pkg/errors"
)

// ── 测试用内存 Repository 实现 ──

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*model.User // key: UserID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.LoginID == user.LoginID {
			return errors.New("duplicate login_id")
		}
	}
	if user.UserID == "" {
		r.seq++
		user.UserID = newTestUUID(r.seq)
	}
	cp := *user
	r.users[user.UserID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByLoginID(_ context.Context, loginID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.LoginID == loginID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) ExistsByLoginID(_ context.Context, loginID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.LoginID == loginID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.UserID] = &cp
	return nil
}

func (r *memUserRepo) ListByClass(_ context.Context, eduCode, schoolCode string, grade, classNumber int) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.Role == model.RoleStudent &&
			u.EducationOfficeCode == eduCode && u.SchoolCode == schoolCode &&
			u.Grade != nil && *u.Grade == grade &&
			u.ClassNumber != nil && *u.ClassNumber == classNumber {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].StudentNumber, out[j].StudentNumber
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out, nil
}

type memMissionRepo struct {
	mu          sync.Mutex
	seq         int
	missions    map[string]*model.Mission
	completions []model.MissionCompletion

	// 注入写入失败（模拟数据库故障）
	completionErr error
}

func newMemMissionRepo() *memMissionRepo {
	return &memMissionRepo{missions: make(map[string]*model.Mission)}
}

func (r *memMissionRepo) Create(_ context.Context, mission *model.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mission.MissionID == "" {
		r.seq++
		mission.MissionID = newTestUUID(1000 + r.seq)
	}
	cp := *mission
	r.missions[mission.MissionID] = &cp
	return nil
}

func (r *memMissionRepo) GetByID(_ context.Context, id string) (*model.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.missions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMissionRepo) ListRegular(_ context.Context) ([]model.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Mission
	for _, m := range r.missions {
		if m.MissionType == model.MissionRegular && m.IsActive {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MissionID < out[j].MissionID })
	return out, nil
}

func (r *memMissionRepo) ListEmergencyByClass(_ context.Context, eduCode, schoolCode string, grade, classNumber int) ([]model.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Mission
	for _, m := range r.missions {
		if m.MissionType == model.MissionEmergency && m.IsActive &&
			m.EducationOfficeCode != nil && *m.EducationOfficeCode == eduCode &&
			m.SchoolCode != nil && *m.SchoolCode == schoolCode &&
			m.Grade != nil && *m.Grade == grade &&
			m.ClassNumber != nil && *m.ClassNumber == classNumber {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MissionID < out[j].MissionID })
	return out, nil
}

func (r *memMissionRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.missions {
		if m.IsActive && m.Expired(now) {
			m.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *memMissionRepo) CreateCompletion(_ context.Context, completion *model.MissionCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.completionErr != nil {
		return r.completionErr
	}
	for _, c := range r.completions {
		if c.MissionID == completion.MissionID && c.UserID == completion.UserID && c.CompletedOn == completion.CompletedOn {
			return gorm.ErrDuplicatedKey
		}
	}
	r.completions = append(r.completions, *completion)
	return nil
}

func (r *memMissionRepo) GetCompletion(_ context.Context, missionID, userID, day string) (*model.MissionCompletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.completions {
		c := r.completions[i]
		if c.MissionID == missionID && c.UserID == userID && c.CompletedOn == day {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMissionRepo) HasCompletion(_ context.Context, missionID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.completions {
		if c.MissionID == missionID && c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMissionRepo) ListCompletions(_ context.Context, userID, day string) ([]model.MissionCompletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MissionCompletion
	for _, c := range r.completions {
		if c.UserID == userID && c.CompletedOn == day {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memMissionRepo) CountRegularCompletions(_ context.Context, userID, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.completions {
		if c.UserID != userID || c.CompletedOn != day {
			continue
		}
		if m, ok := r.missions[c.MissionID]; ok && m.MissionType == model.MissionRegular {
			n++
		}
	}
	return n, nil
}

func (r *memMissionRepo) CountCompletionsByUsers(_ context.Context, userIDs []string, missionType string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	out := make(map[string]int64)
	for _, c := range r.completions {
		if !want[c.UserID] {
			continue
		}
		if m, ok := r.missions[c.MissionID]; ok && m.MissionType == missionType {
			out[c.UserID]++
		}
	}
	return out, nil
}

type memCharacterRepo struct {
	mu         sync.Mutex
	seq        int
	characters map[string]*model.ClassCharacter // key: eduCode|schoolCode|grade|class
}

func newMemCharacterRepo() *memCharacterRepo {
	return &memCharacterRepo{characters: make(map[string]*model.ClassCharacter)}
}

func classKey(eduCode, schoolCode string, grade, classNumber int) string {
	return fmt.Sprintf("%s|%s|%d|%d", eduCode, schoolCode, grade, classNumber)
}

func (r *memCharacterRepo) GetByClass(_ context.Context, eduCode, schoolCode string, grade, classNumber int) (*model.ClassCharacter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.characters[classKey(eduCode, schoolCode, grade, classNumber)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCharacterRepo) Upsert(_ context.Context, character *model.ClassCharacter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := classKey(character.EducationOfficeCode, character.SchoolCode, character.Grade, character.ClassNumber)
	if character.CharacterID == "" {
		r.seq++
		character.CharacterID = newTestUUID(2000 + r.seq)
	}
	cp := *character
	r.characters[key] = &cp
	return nil
}

func (r *memCharacterRepo) AddCoin(_ context.Context, eduCode, schoolCode string, grade, classNumber int, delta float64) (*model.ClassCharacter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := classKey(eduCode, schoolCode, grade, classNumber)
	c, ok := r.characters[key]
	if !ok {
		r.seq++
		c = &model.ClassCharacter{
			CharacterID:         newTestUUID(2000 + r.seq),
			EducationOfficeCode: eduCode,
			SchoolCode:          schoolCode,
			Grade:               grade,
			ClassNumber:         classNumber,
		}
		r.characters[key] = c
	}
	c.Coin += delta
	cp := *c
	return &cp, nil
}

type memCalendarRepo struct {
	mu     sync.Mutex
	events []model.CalendarEvent
}

func newMemCalendarRepo() *memCalendarRepo { return &memCalendarRepo{} }

func (r *memCalendarRepo) Create(_ context.Context, event *model.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.UserID == event.UserID && ev.EventID == event.EventID {
			return errors.New("duplicate event id")
		}
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *memCalendarRepo) Delete(_ context.Context, userID string, eventID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ev := range r.events {
		if ev.UserID == userID && ev.EventID == eventID {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memCalendarRepo) ListByUser(_ context.Context, userID string) ([]model.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CalendarEvent
	for _, ev := range r.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *memCalendarRepo) ListByDateRange(_ context.Context, userID, from, to string) ([]model.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CalendarEvent
	for _, ev := range r.events {
		if ev.UserID == userID && ev.EventDate >= from && ev.EventDate <= to {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *memCalendarRepo) MaxEventID(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, ev := range r.events {
		if ev.UserID == userID && ev.EventID > max {
			max = ev.EventID
		}
	}
	return max, nil
}

type memRecordRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]*model.StudentRecord // key: StudentID
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: make(map[string]*model.StudentRecord)}
}

func (r *memRecordRepo) GetByStudent(_ context.Context, studentID string) (*model.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[studentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *memRecordRepo) Create(_ context.Context, record *model.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.RecordID == "" {
		r.seq++
		record.RecordID = newTestUUID(3000 + r.seq)
	}
	cp := *record
	r.records[record.StudentID] = &cp
	return nil
}

func (r *memRecordRepo) UpdateVersioned(_ context.Context, record *model.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[record.StudentID]
	if !ok || stored.Version != record.Version {
		return apperrors.ErrOptimisticLock
	}
	stored.Content = record.Content
	stored.Version++
	record.Version = stored.Version
	return nil
}

// newMemRepository 组装全内存的 Repository 聚合
func newMemRepository() *repository.Repository {
	return &repository.Repository{
		User:      newMemUserRepo(),
		Mission:   newMemMissionRepo(),
		Character: newMemCharacterRepo(),
		Calendar:  newMemCalendarRepo(),
		Record:    newMemRecordRepo(),
	}
}

// newTestUUID 生成形如 UUID 的稳定测试 id
func newTestUUID(n int) string {
	const hex = "0123456789abcdef"
	id := []byte("00000000-0000-4000-8000-000000000000")
	for i := len(id) - 1; i >= 0 && n > 0; i-- {
		if id[i] == '-' {
			continue
		}
		id[i] = hex[n%16]
		n /= 16
	}
	return string(id)
}

// [自证通过] internal/service/mock_repos_test.go
