package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

func scheduleText(slots []service.ScheduledSlot) string {
	var b strings.Builder
	b.WriteString("🗓 Твоё расписание:\n")
	for _, s := range slots {
		fmt.Fprintf(&b, "\n🕒 %s, %s", s.Slot.Time, utils.ContextLabel(s.Slot.Context))
		if !s.Slot.Recurrence.IsDaily() {
			fmt.Fprintf(&b, " (%s)", utils.RecurrenceLabel(s.Slot.Recurrence))
		}
		b.WriteString("\n")
		for _, sup := range s.Supplements {
			b.WriteString("• " + sup.Name)
			if sup.Dosage != "" {
				b.WriteString(" " + strings.TrimSpace(sup.Dosage+" "+sup.Unit))
			}
			b.WriteString("\n")
		}
		if s.Slot.Explanation != "" {
			b.WriteString("💡 " + s.Slot.Explanation + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// /schedule: расписание по слотам с пояснениями
func ScheduleHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		slots, err := svc.Schedule(context.Background(), c.Sender().ID)
		if err != nil {
			return replyError(c, log, err)
		}
		if len(slots) == 0 {
			return c.Send("Расписание пока пустое. Добавь добавку: /add")
		}
		return c.Send(scheduleText(slots))
	}
}
