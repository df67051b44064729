package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

// SweepExpired evicts URLs, and their stats, that expired more than
// retention ago. Their short codes stay reserved.
func (uc *URLUseCase) SweepExpired(ctx context.Context, retention time.Duration) (int, error) {
	const op = "usecase.URLUseCase.SweepExpired"

	cutoff := uc.clock.Now().Add(-retention)

	removed, err := uc.urlRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete expired urls: %w", op, err)
	}
	if len(removed) == 0 {
		return 0, nil
	}

	if err := uc.statsRepo.Delete(ctx, removed...); err != nil {
		return 0, fmt.Errorf("%s: failed to delete stats: %w", op, err)
	}

	uc.emit(entity.EventExpiredEvicted, map[string]any{
		"count":  len(removed),
		"cutoff": cutoff,
	}, nil)

	return len(removed), nil
}

// RunReaper sweeps every interval until ctx is done.
func (uc *URLUseCase) RunReaper(ctx context.Context, interval, retention time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := uc.SweepExpired(ctx, retention); err != nil {
				uc.emit(entity.EventSweepFailed, nil, err)
			}
		}
	}
}
