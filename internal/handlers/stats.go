package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/adherence"
	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

var monthNames = []string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь", "Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}

const legend = "🟩 – полностью выполнено\n🟨 – частично выполнено\n🟥 – не выполнено\n⬜ – сегодня"

func statsText(st service.Stats) string {
	percent := 0
	if st.Summary.Total > 0 {
		percent = st.Summary.Completed * 100 / st.Summary.Total
	}
	return fmt.Sprintf("📈 *Статистика за 7 дней*\n\n%s\n\n📊 Сегодня: %d/%d (%d%%)\n🔥 Серия: %d дн.\n\n%s",
		utils.FormatWeek(st.Week), st.Summary.Completed, st.Summary.Total, percent, st.Summary.Streak, legend)
}

func StatsHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		st, err := svc.Stats(context.Background(), c.Sender().ID)
		if err != nil {
			return replyError(c, log, err)
		}
		return c.Send(statsText(st), &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	}
}

// parseMonth разбирает "2024-03"; пустая строка: текущий месяц.
func parseMonth(arg string, now time.Time) (int, time.Month, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", arg)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

func monthText(year int, month time.Month, days []adherence.DayStat) string {
	complete := 0
	tracked := 0
	for _, d := range days {
		switch d.Status {
		case adherence.StatusComplete:
			complete++
			tracked++
		case adherence.StatusPartial, adherence.StatusMissed:
			tracked++
		}
	}
	return fmt.Sprintf("📅 %s %d\n\n%s\n\n✅ Полностью выполнено: %d из %d дн.",
		monthNames[month-1], year, utils.FormatMonth(days), complete, tracked)
}

// /month [YYYY-MM]: календарь приёма за месяц
func MonthHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		year, month, err := parseMonth(c.Message().Payload, time.Now().In(svc.Location()))
		if err != nil {
			return c.Send("Формат: /month 2024-03")
		}
		days, err := svc.Month(context.Background(), c.Sender().ID, year, month)
		if err != nil {
			return replyError(c, log, err)
		}
		return c.Send(monthText(year, month, days))
	}
}
