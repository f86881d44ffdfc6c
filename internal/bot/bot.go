package bot

import (
	"fmt"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/config"
	"github.com/ParallelMatter/Pillo-sub000/internal/handlers"
	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

// New создаёт бота; маршруты регистрирует Register.
func New(cfg *config.Config, log *zap.Logger) (*tele.Bot, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	pref := tele.Settings{
		Token:  cfg.TGtoken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("Ошибка хендлера", zap.Error(err))
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		log.Error("Failed to create bot", zap.Error(err))
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return b, nil
}

func Register(b *tele.Bot, svc *service.Service, log *zap.Logger) {
	b.Handle("/start", handlers.StartHandler(svc, log))
	b.Handle("/help", handlers.HelpHandler(log))
	b.Handle("❓ Помощь", handlers.HelpHandler(log))

	b.Handle("/add", handlers.AddHandler(log))
	b.Handle("➕ Добавить", handlers.AddHandler(log))
	b.Handle(&tele.Btn{Unique: utils.BtnCategory}, handlers.HandleCategoryCallback(log))
	b.Handle(&tele.Btn{Unique: utils.BtnMode}, handlers.HandleModeCallback(svc, log))
	b.Handle(&tele.Btn{Unique: utils.BtnRepeat}, handlers.HandleRepeatCallback(svc, log))
	b.Handle(&tele.Btn{Unique: utils.BtnWeekday}, handlers.HandleSelectDayCallback(svc, log))
	b.Handle(&tele.Btn{Unique: utils.BtnWeekdayDone}, handlers.HandleSelectDayCallback(svc, log))

	b.Handle("/list", handlers.ListHandler(svc, log))
	b.Handle("📃 Список", handlers.ListHandler(svc, log))
	handlers.RegisterListCallbacks(b, svc, log)

	b.Handle("/today", handlers.TodayHandler(svc, log))
	b.Handle("📅 Сегодня", handlers.TodayHandler(svc, log))
	mark := handlers.HandleSupplementMarkCallback(svc, log)
	b.Handle(&tele.Btn{Unique: utils.BtnSuppTaken}, mark)
	b.Handle(&tele.Btn{Unique: utils.BtnSuppSkip}, mark)
	b.Handle(&tele.Btn{Unique: utils.BtnSuppUnmark}, mark)

	reminder := handlers.HandleReminderCallback(svc, log)
	b.Handle(&tele.Btn{Unique: utils.BtnSlotTaken}, reminder)
	b.Handle(&tele.Btn{Unique: utils.BtnSlotSkip}, reminder)
	b.Handle(&tele.Btn{Unique: utils.BtnSlotLater}, reminder)

	b.Handle("/schedule", handlers.ScheduleHandler(svc, log))
	b.Handle("/stats", handlers.StatsHandler(svc, log))
	b.Handle("📊 Статистика", handlers.StatsHandler(svc, log))
	b.Handle("/month", handlers.MonthHandler(svc, log))
	b.Handle("/meals", handlers.MealsHandler(svc, log))
	b.Handle("/notify", handlers.NotifyHandler(svc, log))
	b.Handle("/search", handlers.SearchHandler(svc, log))

	// Все остальные текстовые сообщения: шаги мастера добавления
	b.Handle(tele.OnText, handlers.AddTextHandler(svc, log))

	log.Info("Bot routes registered")
}
