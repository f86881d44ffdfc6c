package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/adherence"
	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/reference"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"github.com/ParallelMatter/Pillo-sub000/internal/widget"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TodayItem struct {
	Supplement models.Supplement
	Taken      bool
	Skipped    bool
}

type TodaySlot struct {
	Slot           models.ScheduleSlot
	Items          []TodayItem
	RescheduledFor *time.Time
}

// Done: по всем добавкам слота есть отметка.
func (t TodaySlot) Done() bool {
	for _, it := range t.Items {
		if !it.Taken && !it.Skipped {
			return false
		}
	}
	return true
}

type TodayView struct {
	Date    time.Time
	Slots   []TodaySlot
	Summary adherence.Summary
	// Next: ближайший неотмеченный приём, nil если на сегодня всё
	Next *TodaySlot
}

type Stats struct {
	Summary adherence.Summary
	Week    []adherence.DayStat
}

func supplementsByID(sups []models.Supplement) map[uuid.UUID]models.Supplement {
	byID := make(map[uuid.UUID]models.Supplement, len(sups))
	for _, sup := range sups {
		byID[sup.ID] = sup
	}
	return byID
}

type userData struct {
	slots []models.ScheduleSlot
	sups  []models.Supplement
	logs  []models.IntakeLog
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (userData, error) {
	var d userData
	var err error
	if d.slots, err = s.store.Slots(ctx, userID); err != nil {
		return d, err
	}
	if d.sups, err = s.store.Supplements(ctx, userID, true); err != nil {
		return d, err
	}
	if d.logs, err = s.store.Logs(ctx, userID); err != nil {
		return d, err
	}
	return d, nil
}

func (s *Service) calculator(d userData) adherence.Calculator {
	return adherence.Calculator{
		Logs:        d.logs,
		Slots:       d.slots,
		Supplements: d.sups,
		Today:       s.now().In(s.loc),
	}
}

func (s *Service) todayView(d userData) TodayView {
	today := s.today()
	date := models.DateString(today)
	byID := supplementsByID(d.sups)
	logs := make(map[uuid.UUID]models.IntakeLog)
	for _, l := range d.logs {
		if l.Date == date {
			logs[l.SlotID] = l
		}
	}

	view := TodayView{Date: today, Summary: s.calculator(d).Summary()}
	for _, slot := range d.slots {
		if slot.IsPlaceholder() || !slot.IsActiveOn(today) {
			continue
		}
		ts := TodaySlot{Slot: slot}
		l, hasLog := logs[slot.ID]
		if hasLog {
			ts.RescheduledFor = l.RescheduledFor
		}
		for _, id := range slot.SupplementIDs {
			sup, ok := byID[id]
			if !ok || sup.IsArchived {
				continue
			}
			ts.Items = append(ts.Items, TodayItem{
				Supplement: sup,
				Taken:      hasLog && l.IsTaken(id),
				Skipped:    hasLog && l.IsSkipped(id),
			})
		}
		if len(ts.Items) > 0 {
			view.Slots = append(view.Slots, ts)
		}
	}

	local := s.now().In(s.loc)
	current := local.Hour()*3600 + local.Minute()*60
	for i := range view.Slots {
		ts := &view.Slots[i]
		sec, ok := ts.Slot.Seconds()
		if !ok || ts.Done() {
			continue
		}
		if sec >= current || (ts.RescheduledFor != nil && ts.RescheduledFor.After(s.now())) {
			view.Next = ts
			break
		}
	}
	return view
}

// Today: приёмы на сегодня с отметками и ближайший приём.
func (s *Service) Today(ctx context.Context, telegramID int64) (TodayView, error) {
	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return TodayView{}, err
	}
	d, err := s.load(ctx, user.ID)
	if err != nil {
		return TodayView{}, err
	}
	return s.todayView(d), nil
}

func (s *Service) Stats(ctx context.Context, telegramID int64) (Stats, error) {
	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return Stats{}, err
	}
	d, err := s.load(ctx, user.ID)
	if err != nil {
		return Stats{}, err
	}
	calc := s.calculator(d)
	return Stats{Summary: calc.Summary(), Week: calc.SevenDayHistory()}, nil
}

// Month: календарь приёма за месяц; дни до начала отслеживания помечаются как future.
func (s *Service) Month(ctx context.Context, telegramID int64, year int, month time.Month) ([]adherence.DayStat, error) {
	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	d, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.calculator(d).MonthHistory(year, month, user.TrackingStartedAt), nil
}

// WeeklyDigest: текст еженедельного отчёта; пустая строка, если за неделю нечего было принимать.
func (s *Service) WeeklyDigest(ctx context.Context, user models.User) (string, error) {
	d, err := s.load(ctx, user.ID)
	if err != nil {
		return "", err
	}
	calc := s.calculator(d)
	week := calc.SevenDayHistory()
	planned := 0
	for _, day := range week {
		planned += day.Active
	}
	if planned == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("📊 *Итоги недели*\n\n")
	b.WriteString(utils.FormatWeek(week))
	fmt.Fprintf(&b, "\n\n🔥 Серия: %d дн.", calc.Streak())
	return b.String(), nil
}

func (s *Service) Search(query string) []reference.SearchResult {
	return s.index.SearchWithContext(query)
}

// pushWidget обновляет сводку для виджета. Ошибки только логируются.
func (s *Service) pushWidget(ctx context.Context, user *models.User) {
	d, err := s.load(ctx, user.ID)
	if err != nil {
		s.log.Warn("widget: failed to load data", zap.Int64("telegram_id", user.TelegramID), zap.Error(err))
		return
	}
	view := s.todayView(d)
	snap := widget.Snapshot{
		TelegramID: user.TelegramID,
		Date:       models.DateString(view.Date),
		Completed:  view.Summary.Completed,
		Total:      view.Summary.Total,
		Streak:     view.Summary.Streak,
		UpdatedAt:  s.now().UTC(),
	}
	if view.Next != nil {
		next := &widget.NextDose{Time: view.Next.Slot.Time, Context: utils.ContextLabel(view.Next.Slot.Context)}
		for _, it := range view.Next.Items {
			if !it.Taken && !it.Skipped {
				next.Supplements = append(next.Supplements, it.Supplement.Name)
			}
		}
		snap.NextDose = next
	}
	if err := s.sink.Write(ctx, snap); err != nil {
		s.log.Warn("widget: failed to write snapshot", zap.Int64("telegram_id", user.TelegramID), zap.Error(err))
	}
}
