package http_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Provisiona-api/internal/application/ports"
	"github.com/jhoicas/Provisiona-api/internal/domain"
	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
)

// Fakes en memoria para probar el router completo sin base de datos.

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]entity.TaxProfile
}

func (r *memProfiles) Upsert(_ context.Context, p *entity.TaxProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byID[p.UserID]; ok {
		p.CreatedAt = prev.CreatedAt
	}
	r.byID[p.UserID] = *p
	return nil
}

func (r *memProfiles) GetByUserID(_ context.Context, userID string) (*entity.TaxProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type inputKey struct {
	user   string
	period int
}

type memInputs struct {
	mu   sync.Mutex
	rows map[inputKey]entity.MonthlyInput
}

func (r *memInputs) Upsert(_ context.Context, in *entity.MonthlyInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := inputKey{in.UserID, in.Period()}
	if prev, ok := r.rows[k]; ok {
		in.CreatedAt = prev.CreatedAt
	}
	r.rows[k] = *in
	return nil
}

func (r *memInputs) Get(_ context.Context, userID string, year, month int) (*entity.MonthlyInput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.rows[inputKey{userID, entity.PeriodNumber(year, month)}]
	if !ok {
		return nil, nil
	}
	return &in, nil
}

func (r *memInputs) ListSince(_ context.Context, userID string, fromPeriod int) ([]entity.MonthlyInput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MonthlyInput
	for _, in := range r.rows {
		if in.UserID == userID && in.Period() >= fromPeriod {
			out = append(out, in)
		}
	}
	return out, nil
}

type memMessages struct {
	mu   sync.Mutex
	msgs []*entity.ChatMessage
}

func (r *memMessages) Create(_ context.Context, m *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *memMessages) ListRecent(_ context.Context, userID string, limit int) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*entity.ChatMessage
	for _, m := range r.msgs {
		if m.UserID == userID {
			mine = append(mine, m)
		}
	}
	if len(mine) > limit {
		mine = mine[len(mine)-limit:]
	}
	return mine, nil
}

func (r *memMessages) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.msgs[:0]
	for _, m := range r.msgs {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	r.msgs = kept
	return nil
}

func (r *memMessages) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

type stubLLM struct {
	reply  string
	system string
}

func (s *stubLLM) Reply(_ context.Context, systemPrompt string, _ []ports.ChatTurn, _ string) (string, error) {
	s.system = systemPrompt
	return s.reply, nil
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

func (s *memStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type memDocuments struct {
	mu   sync.Mutex
	docs map[string]*entity.Document
}

func (r *memDocuments) Create(_ context.Context, d *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.ID] = d
	return nil
}

func (r *memDocuments) GetByID(_ context.Context, userID, id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.UserID != userID {
		return nil, nil
	}
	return d, nil
}

func (r *memDocuments) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memDocuments) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}
