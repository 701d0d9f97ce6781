package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job tarea programada.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler ejecuta Jobs según expresiones cron estándar de 5 campos.
// Cada ejecución recibe un contexto con timeout; las ejecuciones solapadas se omiten.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

// NewScheduler crea el planificador en la zona horaria indicada (nil = local).
func NewScheduler(log zerolog.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	l := log.With().Str("component", "scheduler").Logger()
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger), cron.Recover(cron.DiscardLogger)),
		),
		log:     l,
		timeout: 5 * time.Minute,
	}
}

// AddJob registra job con la expresión schedule (ej. "30 3 * * *", "@hourly").
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() { s.run(job) })
	if err != nil {
		return err
	}
	s.log.Info().Str("schedule", schedule).Str("job", job.Name()).Msg("job registrado")
	return nil
}

// Start inicia el planificador en segundo plano.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler iniciado")
}

// Stop detiene el planificador y espera a que terminen los jobs en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler detenido con jobs en curso")
		return
	}
	s.log.Info().Msg("scheduler detenido")
}

// RunNow ejecuta un job inmediatamente (fuera del calendario).
func (s *Scheduler) RunNow(job Job) error {
	return s.run(job)
}

func (s *Scheduler) run(job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("job falló")
		return err
	}
	s.log.Debug().Str("job", job.Name()).Dur("elapsed", time.Since(started)).Msg("job completado")
	return nil
}
