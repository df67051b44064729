package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

// GetStats reports the URL behind shortCode together with its click history.
func (uc *URLUseCase) GetStats(ctx context.Context, shortCode string) (*entity.StatsSnapshot, error) {
	const op = "usecase.URLUseCase.GetStats"

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			uc.emit(entity.EventStatsNotFound, map[string]any{"shortcode": shortCode}, err)
		}

		return nil, fmt.Errorf("%s: failed to retrieve url: %w", op, err)
	}

	stats, err := uc.statsRepo.Retrieve(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			uc.emit(entity.EventStatsNotFound, map[string]any{"shortcode": shortCode}, err)
		}

		return nil, fmt.Errorf("%s: failed to retrieve stats: %w", op, err)
	}

	snapshot := report(url, stats, uc.clock.Now())

	uc.emit(entity.EventStatsAccessed, map[string]any{
		"shortcode":    shortCode,
		"total_clicks": snapshot.TotalClicks,
	}, nil)

	return snapshot, nil
}

func report(url *entity.URL, stats *entity.Stats, now time.Time) *entity.StatsSnapshot {
	stats = stats.Clone()

	return &entity.StatsSnapshot{
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		TotalClicks: stats.TotalClicks,
		CreatedAt:   url.CreatedAt,
		ExpiresAt:   url.ExpiresAt,
		ClickEvents: stats.ClickEvents,
		IsExpired:   url.IsExpired(now),
	}
}
