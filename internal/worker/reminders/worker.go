// Package reminders рассылает напоминания о подтвержденных бронированиях по расписанию cron
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-RoomReservationService/internal/infra/queue"
)

// runTimeout ограничение на один проход
const runTimeout = time.Minute

// Worker периодически публикует reservation.reminder по каждому
// бронированию из окна ближайших 24 часов, не чаще одного раза на бронирование
type Worker struct {
	scheduler    *cron.Cron
	schedule     string
	source       UpcomingSource
	deduper      Deduper
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewWorker создает воркер. schedule - стандартное cron выражение из 5 полей.
func NewWorker(schedule string, source UpcomingSource, deduper Deduper, publisher EventPublisher, logger Logger) (*Worker, error) {
	w := &Worker{
		schedule:     schedule,
		source:       source,
		deduper:      deduper,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}

	cronLog := &cronLogger{logger: logger}
	w.scheduler = cron.New(cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	))

	if _, err := w.scheduler.AddFunc(schedule, w.tick); err != nil {
		return nil, fmt.Errorf("reminders: invalid schedule %q: %w", schedule, err)
	}

	return w, nil
}

// Start запускает расписание в отдельной горутине
func (w *Worker) Start() {
	w.logger.Info("Reminders: started with schedule %q", w.schedule)
	w.scheduler.Start()
}

// Stop останавливает расписание. Возвращенный контекст завершается,
// когда закончится текущий проход.
func (w *Worker) Stop() context.Context {
	w.logger.Info("Reminders: stopping")
	return w.scheduler.Stop()
}

func (w *Worker) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := w.RunOnce(ctx); err != nil {
		w.logger.Error("Reminders: run failed: %v", err)
	}
}

// RunOnce выполняет один проход и возвращает число отправленных напоминаний
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	// 1. Получаем бронирования из окна 24 часов
	upcoming, err := w.source.Upcoming(ctx)
	if err != nil {
		return 0, fmt.Errorf("reminders: list upcoming: %w", err)
	}

	sent := 0
	for _, r := range upcoming {
		// 2. Пропускаем уже отправленные
		acquired, err := w.deduper.Acquire(ctx, r.ID)
		if err != nil {
			w.logger.Warn("Reminders: dedupe failed for reservation id=%d: %v", r.ID, err)
			continue
		}
		if !acquired {
			continue
		}

		// 3. Публикуем напоминание, при ошибке снимаем отметку до следующего прохода
		event := queue.NewReservationEvent(queue.EventReservationReminder, r, w.timeProvider.Now())
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.logger.Warn("Reminders: failed to publish reminder for reservation id=%d: %v", r.ID, err)
			if err := w.deduper.Release(ctx, r.ID); err != nil {
				w.logger.Warn("Reminders: failed to release reservation id=%d: %v", r.ID, err)
			}
			continue
		}
		sent++
	}

	w.logger.Info("Reminders: sent %d of %d upcoming reservations", sent, len(upcoming))
	return sent, nil
}

// cronLogger передает сообщения планировщика в логгер сервиса
type cronLogger struct {
	logger Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("Reminders: cron %s %v", msg, keysAndValues)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("Reminders: cron %s: %v %v", msg, err, keysAndValues)
}
