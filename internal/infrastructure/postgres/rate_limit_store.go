package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ fiber.Storage = (*RateLimitStore)(nil)

// RateLimitStore implementa fiber.Storage sobre la tabla rate_limit_entries para que
// el limitador de peticiones comparta contadores entre varias instancias de la API.
type RateLimitStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewRateLimitStore construye el store. Cada operación usa su propio timeout
// porque la interfaz de fiber no recibe contexto.
func NewRateLimitStore(pool *pgxpool.Pool) *RateLimitStore {
	return &RateLimitStore{pool: pool, timeout: 2 * time.Second}
}

func (s *RateLimitStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get devuelve el valor de la clave o nil si no existe o ya expiró.
func (s *RateLimitStore) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	var val []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM rate_limit_entries WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	).Scan(&val)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("rate limit get: %w", err)
	}
	return val, nil
}

// Set guarda el valor; exp = 0 significa sin expiración.
func (s *RateLimitStore) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	var expiresAt *time.Time
	if exp > 0 {
		t := time.Now().Add(exp)
		expiresAt = &t
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rate_limit_entries (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, val, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("rate limit set: %w", err)
	}
	return nil
}

// Delete elimina la clave.
func (s *RateLimitStore) Delete(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.pool.Exec(ctx, `DELETE FROM rate_limit_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("rate limit delete: %w", err)
	}
	return nil
}

// Reset vacía todos los contadores.
func (s *RateLimitStore) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.pool.Exec(ctx, `DELETE FROM rate_limit_entries`); err != nil {
		return fmt.Errorf("rate limit reset: %w", err)
	}
	return nil
}

// PurgeExpired borra las entradas vencidas; lo invoca el job de mantenimiento.
func (s *RateLimitStore) PurgeExpired(ctx context.Context) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM rate_limit_entries WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("rate limit purge: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Close no cierra el pool: su ciclo de vida lo maneja main.
func (s *RateLimitStore) Close() error { return nil }
