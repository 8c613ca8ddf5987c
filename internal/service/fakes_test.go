package service

import (
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/notify"
	"alcyxob/trainer-desk/internal/repository"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// memStore backs every fake repository.
type memStore struct {
	mu         sync.Mutex
	users      map[primitive.ObjectID]domain.User
	clients    map[primitive.ObjectID]domain.Client
	payments   map[primitive.ObjectID]domain.Payment
	schedules  map[primitive.ObjectID]domain.WorkoutSchedule
	progress   map[primitive.ObjectID]domain.ProgressEntry
	statements map[primitive.ObjectID]domain.Statement
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[primitive.ObjectID]domain.User{},
		clients:    map[primitive.ObjectID]domain.Client{},
		payments:   map[primitive.ObjectID]domain.Payment{},
		schedules:  map[primitive.ObjectID]domain.WorkoutSchedule{},
		progress:   map[primitive.ObjectID]domain.ProgressEntry{},
		statements: map[primitive.ObjectID]domain.Statement{},
	}
}

// --- users ---

type memUserRepo struct{ *memStore }

func (r memUserRepo) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == strings.ToLower(u.Email) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(u.Email)
	r.users[u.ID] = *u
	return u.ID, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// --- clients ---

type memClientRepo struct{ *memStore }

func (r memClientRepo) Create(_ context.Context, c *domain.Client) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = primitive.NewObjectID()
	r.clients[c.ID] = *c
	return c.ID, nil
}

func (r memClientRepo) GetByID(_ context.Context, userID, clientID primitive.ObjectID) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r memClientRepo) ListByUser(_ context.Context, userID primitive.ObjectID, filter domain.ClientFilter) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Client{}
	for _, c := range r.clients {
		if c.UserID != userID {
			continue
		}
		if filter == domain.FilterActive && !c.IsActive || filter == domain.FilterPast && c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memClientRepo) Update(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.clients[c.ID]
	if !ok || existing.UserID != c.UserID {
		return repository.ErrNotFound
	}
	r.clients[c.ID] = *c
	return nil
}

func (r memClientRepo) SetActive(_ context.Context, userID, clientID primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	c.IsActive = active
	r.clients[clientID] = c
	return nil
}

func (r memClientRepo) Delete(_ context.Context, userID, clientID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.clients, clientID)
	return nil
}

// --- payments ---

type memPaymentRepo struct{ *memStore }

func (r memPaymentRepo) Create(_ context.Context, p *domain.Payment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	r.payments[p.ID] = *p
	return p.ID, nil
}

func (r memPaymentRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memPaymentRepo) list(match func(domain.Payment) bool) []domain.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Payment{}
	for _, p := range r.payments {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidOn.After(out[j].PaidOn) })
	return out
}

func (r memPaymentRepo) ListByClient(_ context.Context, userID, clientID primitive.ObjectID) ([]domain.Payment, error) {
	return r.list(func(p domain.Payment) bool { return p.UserID == userID && p.ClientID == clientID }), nil
}

func (r memPaymentRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Payment, error) {
	return r.list(func(p domain.Payment) bool { return p.UserID == userID }), nil
}

func (r memPaymentRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r memPaymentRepo) DeleteByClient(_ context.Context, clientID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.payments {
		if p.ClientID == clientID {
			delete(r.payments, id)
			n++
		}
	}
	return n, nil
}

// --- schedules ---

type memScheduleRepo struct{ *memStore }

func (r memScheduleRepo) CreateMany(_ context.Context, rows []*domain.WorkoutSchedule) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, s := range rows {
		s.ID = primitive.NewObjectID()
		r.schedules[s.ID] = *s
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (r memScheduleRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok || s.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r memScheduleRepo) list(match func(domain.WorkoutSchedule) bool) []domain.WorkoutSchedule {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WorkoutSchedule{}
	for _, s := range r.schedules {
		if match(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (r memScheduleRepo) ListByClient(_ context.Context, userID, clientID primitive.ObjectID) ([]domain.WorkoutSchedule, error) {
	return r.list(func(s domain.WorkoutSchedule) bool { return s.UserID == userID && s.ClientID == clientID }), nil
}

func (r memScheduleRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutSchedule, error) {
	return r.list(func(s domain.WorkoutSchedule) bool { return s.UserID == userID }), nil
}

func (r memScheduleRepo) Update(_ context.Context, s *domain.WorkoutSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.schedules[s.ID]
	if !ok || existing.UserID != s.UserID {
		return repository.ErrNotFound
	}
	r.schedules[s.ID] = *s
	return nil
}

func (r memScheduleRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok || s.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.schedules, id)
	return nil
}

func (r memScheduleRepo) DeleteByClient(_ context.Context, clientID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.schedules {
		if s.ClientID == clientID {
			delete(r.schedules, id)
			n++
		}
	}
	return n, nil
}

// --- progress ---

type memProgressRepo struct{ *memStore }

func (r memProgressRepo) Create(_ context.Context, e *domain.ProgressEntry) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	r.progress[e.ID] = *e
	return e.ID, nil
}

func (r memProgressRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.ProgressEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.progress[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r memProgressRepo) ListByClient(_ context.Context, userID, clientID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.ProgressEntry{}
	for _, e := range r.progress {
		if e.UserID == userID && e.ClientID == clientID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r memProgressRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.progress[id]
	if !ok || e.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.progress, id)
	return nil
}

func (r memProgressRepo) DeleteByClient(_ context.Context, clientID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.progress {
		if e.ClientID == clientID {
			delete(r.progress, id)
			n++
		}
	}
	return n, nil
}

// --- statements ---

type memStatementRepo struct{ *memStore }

func (r memStatementRepo) Create(_ context.Context, st *domain.Statement) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st.ID = primitive.NewObjectID()
	r.statements[st.ID] = *st
	return st.ID, nil
}

func (r memStatementRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Statement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Statement{}
	for _, st := range r.statements {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

// --- storage and mail ---

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) PutObject(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key + "?signed=1", nil
}

func (m *memStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}
