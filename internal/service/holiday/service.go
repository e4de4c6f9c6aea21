package holiday

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/export"
	"github.com/truewood-ems/ems-backend-go/internal/service/timesheet"
)

type HolidayServiceImpl struct {
	holidayRepo   holiday.HolidayRepository
	weeklyOffRepo holiday.WeeklyOffRepository
	reportCache   report.ReportCache
	orgName       string
	logger        *zap.Logger
}

func NewHolidayService(
	holidayRepo holiday.HolidayRepository,
	weeklyOffRepo holiday.WeeklyOffRepository,
	reportCache report.ReportCache,
	orgName string,
	logger *zap.Logger,
) holiday.HolidayService {
	return &HolidayServiceImpl{
		holidayRepo:   holidayRepo,
		weeklyOffRepo: weeklyOffRepo,
		reportCache:   reportCache,
		orgName:       orgName,
		logger:        logger,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// invalidate drops cached reports for the working month containing date.
// Failures are logged; the cache expires on its own.
func (s *HolidayServiceImpl) invalidate(ctx context.Context, date time.Time) {
	year, month := timesheet.WorkingMonthOf(date)
	if err := s.reportCache.Invalidate(ctx, year, int(month)); err != nil {
		s.logger.Warn("failed to invalidate report cache",
			zap.Int("year", year), zap.Int("month", int(month)), zap.Error(err))
	}
}

// CreateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{Date: req.ParsedDate, Name: req.Name})
	if err != nil {
		if isUniqueViolation(err) {
			return holiday.HolidayResponse{}, holiday.ErrHolidayDateExists
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	s.invalidate(ctx, created.Date)
	return holiday.NewHolidayResponse(created), nil
}

// GetHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) GetHoliday(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	h, err := s.holidayRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.HolidayResponse{}, holiday.ErrHolidayNotFound
		}
		return holiday.HolidayResponse{}, err
	}
	return holiday.NewHolidayResponse(h), nil
}

// ListHolidays implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListHolidays(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	holidays, err := s.holidayRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(h))
	}
	return responses, nil
}

// UpdateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) UpdateHoliday(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	existing, err := s.holidayRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.HolidayResponse{}, holiday.ErrHolidayNotFound
		}
		return holiday.HolidayResponse{}, err
	}

	previousDate := existing.Date
	if req.Date != nil {
		d, _ := time.Parse("2006-01-02", *req.Date)
		existing.Date = d
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}

	if err := s.holidayRepo.Update(ctx, existing); err != nil {
		if isUniqueViolation(err) {
			return holiday.HolidayResponse{}, holiday.ErrHolidayDateExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.HolidayResponse{}, holiday.ErrHolidayNotFound
		}
		return holiday.HolidayResponse{}, err
	}

	s.invalidate(ctx, previousDate)
	if !previousDate.Equal(existing.Date) {
		s.invalidate(ctx, existing.Date)
	}
	return holiday.NewHolidayResponse(existing), nil
}

// DeleteHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	existing, err := s.holidayRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.ErrHolidayNotFound
		}
		return err
	}

	if err := s.holidayRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.ErrHolidayNotFound
		}
		return err
	}

	s.invalidate(ctx, existing.Date)
	return nil
}

func toWeeklyOffResponses(offs []holiday.WeeklyOff) []holiday.WeeklyOffResponse {
	byDay := make(map[time.Weekday]bool, len(offs))
	for _, o := range offs {
		byDay[o.Weekday] = o.IsOff
	}
	responses := make([]holiday.WeeklyOffResponse, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		responses = append(responses, holiday.WeeklyOffResponse{
			Weekday: int(d),
			Name:    d.String(),
			IsOff:   byDay[d],
		})
	}
	return responses
}

// GetWeeklyOffs implements holiday.HolidayService.
func (s *HolidayServiceImpl) GetWeeklyOffs(ctx context.Context) ([]holiday.WeeklyOffResponse, error) {
	offs, err := s.weeklyOffRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toWeeklyOffResponses(offs), nil
}

// UpdateWeeklyOffs implements holiday.HolidayService. Cached reports are
// not invalidated; they expire within the cache TTL.
func (s *HolidayServiceImpl) UpdateWeeklyOffs(ctx context.Context, req holiday.UpdateWeeklyOffsRequest) ([]holiday.WeeklyOffResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	offs := req.ToWeeklyOffs()
	if err := s.weeklyOffRepo.ReplaceAll(ctx, offs); err != nil {
		return nil, fmt.Errorf("failed to update weekly offs: %w", err)
	}
	return toWeeklyOffResponses(offs), nil
}

// GetCalendar implements holiday.HolidayService.
func (s *HolidayServiceImpl) GetCalendar(ctx context.Context, start, end time.Time) (holiday.Calendar, error) {
	holidays, err := s.holidayRepo.ListBetween(ctx, start, end)
	if err != nil {
		return holiday.Calendar{}, err
	}
	offs, err := s.weeklyOffRepo.List(ctx)
	if err != nil {
		return holiday.Calendar{}, err
	}
	return holiday.NewCalendar(holidays, offs), nil
}

// ExportICS implements holiday.HolidayService.
func (s *HolidayServiceImpl) ExportICS(ctx context.Context, year int) ([]byte, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	holidays, err := s.holidayRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return export.HolidayFeed(s.orgName, holidays, time.Now())
}

// ImportICS implements holiday.HolidayService.
func (s *HolidayServiceImpl) ImportICS(ctx context.Context, r io.Reader) (holiday.ImportHolidaysResponse, error) {
	parsed, err := export.ParseHolidays(r)
	if err != nil {
		s.logger.Info("rejected calendar import", zap.Error(err))
		return holiday.ImportHolidaysResponse{}, holiday.ErrInvalidCalendar
	}

	resp := holiday.ImportHolidaysResponse{
		Created: []holiday.HolidayResponse{},
		Skipped: []string{},
	}
	seen := make(map[string]bool, len(parsed))
	for _, h := range parsed {
		key := h.Date.Format("2006-01-02")
		if seen[key] {
			resp.Skipped = append(resp.Skipped, key)
			continue
		}
		seen[key] = true

		created, err := s.holidayRepo.Create(ctx, h)
		if err != nil {
			if isUniqueViolation(err) {
				resp.Skipped = append(resp.Skipped, key)
				continue
			}
			return resp, fmt.Errorf("failed to import holiday %s: %w", key, err)
		}
		resp.Created = append(resp.Created, holiday.NewHolidayResponse(created))
		s.invalidate(ctx, created.Date)
	}

	s.logger.Info("imported holidays",
		zap.Int("created", len(resp.Created)), zap.Int("skipped", len(resp.Skipped)))
	return resp, nil
}
