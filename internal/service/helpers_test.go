package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/events"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store/gormstore"
	"github.com/Skotchmaster/marine_shop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic string
	ev    events.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *fakePublisher) Publish(_ context.Context, topic, _ string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic: topic, ev: ev})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.ev.Type
	}
	return out
}

type sentMail struct {
	to, subject, body string
}

type fakeMail struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMail) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uuid.UUID]bool
	hits    []uuid.UUID
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uuid.UUID]bool{}}
}

func (f *fakeIndex) IndexItem(_ context.Context, item *models.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[item.ID] = true
	return nil
}

func (f *fakeIndex) DeleteItem(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, models.Kind, string, int, int) (int64, []uuid.UUID, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

// tick returns a clock that advances one second per call.
func tick() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newStore(t *testing.T) *gormstore.Store {
	t.Helper()
	return testutil.NewStore(t)
}

func seedItem(t *testing.T, s *gormstore.Store, kind models.Kind, name string, price int64) *models.CatalogItem {
	t.Helper()
	item := &models.CatalogItem{
		ID:      uuid.New(),
		Kind:    kind,
		Name:    name,
		Price:   decimal.NewFromInt(price),
		Stock:   10,
		Image:   "/uploads/images/" + name + ".png",
		Reviews: []models.Review{},
	}
	require.NoError(t, s.CreateItem(context.Background(), item))
	return item
}

func requireKind(t *testing.T, err, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "want %v, got %v", kind, err)
}
