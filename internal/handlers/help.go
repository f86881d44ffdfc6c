package handlers

import (
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

const helpText = `❓ Как это работает

Добавь добавки через /add — я сам подберу время: натощак, с едой или перед сном, и разнесу несовместимые (например, кальций и железо) минимум на 2 часа.

/today — приёмы на сегодня, отметить принятое
/schedule — расписание с пояснениями
/list — мои добавки (пауза, удаление)
/stats — неделя и серия дней
/month — календарь месяца
/search магний — справочник
/meals 08:00 13:00 19:00 [skip] — время еды, skip — без завтрака
/notify on|off — напоминания`

func HelpHandler(log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		if err := c.Send(helpText); err != nil {
			log.Warn("Не удалось отправить справку", zap.Error(err))
		}
		return utils.SendMainMenu(c)
	}
}
