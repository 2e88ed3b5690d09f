package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler управляет запланированными задачами
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	spec   string
	job    func(ctx context.Context) error
}

// New создает планировщик, запускающий задачу по cron-выражению spec (UTC)
func New(spec string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		spec:   spec,
	}
}

// SetJob устанавливает задачу, выполняемую по расписанию
func (s *Scheduler) SetJob(f func(ctx context.Context) error) {
	s.job = f
}

// Start запускает планировщик
func (s *Scheduler) Start() error {
	if s.job == nil {
		log.Println("⚠️ Job not set, scheduler will not run")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		log.Printf("🕘 Triggered scheduled digest (%s UTC)", s.spec)
		if err := s.job(s.ctx); err != nil {
			log.Printf("❌ Scheduled digest failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started - digest schedule %q UTC", s.spec)
	return nil
}

// Stop останавливает планировщик и ждет завершения текущей задачи
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

// IsRunning проверяет, запущен ли планировщик
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
