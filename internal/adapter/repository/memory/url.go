package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

type URLRepository struct {
	mu   sync.RWMutex
	urls map[string]*entity.URL
}

func NewURLRepository() *URLRepository {
	return &URLRepository{urls: make(map[string]*entity.URL)}
}

func (r *URLRepository) Save(_ context.Context, url *entity.URL) error {
	const op = "adapter.repository.memory.URLRepository.Save"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.urls[url.ShortCode]; ok {
		return fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
	}

	stored := *url
	r.urls[url.ShortCode] = &stored

	return nil
}

// RetrieveByShortCode returns a copy of the stored URL.
func (r *URLRepository) RetrieveByShortCode(_ context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.RetrieveByShortCode"

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	found := *url
	return &found, nil
}

// IncrementClickCount bumps the click counter and returns its new value.
func (r *URLRepository) IncrementClickCount(_ context.Context, shortCode string) (int64, error) {
	const op = "adapter.repository.memory.URLRepository.IncrementClickCount"

	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}
	url.ClickCount++

	return url.ClickCount, nil
}

// DeleteExpired removes every URL that expired before the cutoff and
// returns the removed short codes.
func (r *URLRepository) DeleteExpired(_ context.Context, before time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for code, url := range r.urls {
		if url.ExpiresAt.Before(before) {
			delete(r.urls, code)
			removed = append(removed, code)
		}
	}

	return removed, nil
}

func (r *URLRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.urls), nil
}
