package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ChatPurger borra mensajes de chat anteriores a cutoff.
type ChatPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RateLimitPurger borra contadores vencidos del limitador.
type RateLimitPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RetentionJob aplica la política de retención: conversación con más de
// retentionDays días y contadores de rate limit vencidos.
type RetentionJob struct {
	chat          ChatPurger
	rateLimit     RateLimitPurger // nil si el limitador usa memoria
	retentionDays int
	log           zerolog.Logger
	now           func() time.Time
}

// NewRetentionJob construye el job. retentionDays <= 0 desactiva la purga del chat.
func NewRetentionJob(chat ChatPurger, rateLimit RateLimitPurger, retentionDays int, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		chat:          chat,
		rateLimit:     rateLimit,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "retention").Logger(),
		now:           time.Now,
	}
}

// Name implementa Job.
func (j *RetentionJob) Name() string { return "retention" }

// Run implementa Job. Ejecuta ambas purgas aunque una falle.
func (j *RetentionJob) Run(ctx context.Context) error {
	var errs []error

	if j.chat != nil && j.retentionDays > 0 {
		cutoff := j.now().AddDate(0, 0, -j.retentionDays)
		n, err := j.chat.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("purgar chat: %w", err))
		} else {
			j.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("mensajes de chat purgados")
		}
	}

	if j.rateLimit != nil {
		n, err := j.rateLimit.PurgeExpired(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("purgar rate limit: %w", err))
		} else {
			j.log.Info().Int64("deleted", n).Msg("contadores de rate limit purgados")
		}
	}

	return errors.Join(errs...)
}
