package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

// StatsRepository keeps the click history of every short URL. Appending an
// event and bumping the total happen under one lock, so readers never see
// one without the other.
type StatsRepository struct {
	mu    sync.RWMutex
	stats map[string]*entity.Stats
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{stats: make(map[string]*entity.Stats)}
}

// Create starts an empty history for shortCode.
func (r *StatsRepository) Create(_ context.Context, shortCode string) error {
	const op = "adapter.repository.memory.StatsRepository.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stats[shortCode]; ok {
		return fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
	}
	r.stats[shortCode] = &entity.Stats{ClickEvents: []entity.ClickEvent{}}

	return nil
}

// Append records event and returns the new click total.
func (r *StatsRepository) Append(_ context.Context, shortCode string, event entity.ClickEvent) (int64, error) {
	const op = "adapter.repository.memory.StatsRepository.Append"

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[shortCode]
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}
	s.ClickEvents = append(s.ClickEvents, event)
	s.TotalClicks++

	return s.TotalClicks, nil
}

// Retrieve returns a deep copy of the history for shortCode.
func (r *StatsRepository) Retrieve(_ context.Context, shortCode string) (*entity.Stats, error) {
	const op = "adapter.repository.memory.StatsRepository.Retrieve"

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stats[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return s.Clone(), nil
}

func (r *StatsRepository) Delete(_ context.Context, shortCodes ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, code := range shortCodes {
		delete(r.stats, code)
	}

	return nil
}
