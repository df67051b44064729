// Package usecase implements the shortcode lifecycle: allocation, expiry,
// redirect resolution and click analytics.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/pkg/clock"
)

// maxValidityMinutes keeps CreatedAt + validity within time.Duration range.
const maxValidityMinutes = 100 * 365 * 24 * 60

type urlRepository interface {
	Save(ctx context.Context, url *entity.URL) error
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	IncrementClickCount(ctx context.Context, shortCode string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) ([]string, error)
	Count(ctx context.Context) (int, error)
}

type statsRepository interface {
	Create(ctx context.Context, shortCode string) error
	Append(ctx context.Context, shortCode string, event entity.ClickEvent) (int64, error)
	Retrieve(ctx context.Context, shortCode string) (*entity.Stats, error)
	Delete(ctx context.Context, shortCodes ...string) error
}

type eventSink interface {
	Emit(event entity.Event)
}

type discardSink struct{}

func (discardSink) Emit(entity.Event) {}

type URLUseCase struct {
	alloc           *allocator
	urlRepo         urlRepository
	statsRepo       statsRepository
	sink            eventSink
	clock           clock.Clock
	defaultValidity int
	newID           func() string
}

type Option func(*URLUseCase)

func WithClock(c clock.Clock) Option {
	return func(uc *URLUseCase) {
		uc.clock = c
	}
}

func WithEventSink(s eventSink) Option {
	return func(uc *URLUseCase) {
		uc.sink = s
	}
}

// WithDefaultValidity sets the validity applied when a request does not carry one.
func WithDefaultValidity(minutes int) Option {
	return func(uc *URLUseCase) {
		uc.defaultValidity = minutes
	}
}

func New(registry codeRegistry, urlRepo urlRepository, statsRepo statsRepository, opts ...Option) *URLUseCase {
	uc := &URLUseCase{
		alloc:           newAllocator(registry),
		urlRepo:         urlRepo,
		statsRepo:       statsRepo,
		sink:            discardSink{},
		clock:           clock.Real{},
		defaultValidity: entity.DefaultValidityMinutes,
		newID:           uuid.NewString,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// CreateShortURL validates the request, reserves a short code and stores the
// URL together with an empty click history.
func (uc *URLUseCase) CreateShortURL(ctx context.Context, req entity.ShortenRequest) (*entity.URL, error) {
	const op = "usecase.URLUseCase.CreateShortURL"

	validity := uc.defaultValidity
	if req.ValidityMinutes != nil {
		validity = *req.ValidityMinutes
	}

	if validity <= 0 || validity > maxValidityMinutes {
		uc.emit(entity.EventInvalidRequest, map[string]any{"validity": validity}, entity.ErrInvalidValidity)
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidValidity)
	}

	if req.ShortCode != "" && !validShortCode(req.ShortCode) {
		uc.emit(entity.EventInvalidRequest, map[string]any{"shortcode": req.ShortCode}, entity.ErrInvalidFormat)
		return nil, fmt.Errorf("%s: invalid short code: %w", op, entity.ErrInvalidFormat)
	}

	targetURL, err := normalizeURL(req.TargetURL)
	if err != nil {
		uc.emit(entity.EventInvalidRequest, map[string]any{"url": req.TargetURL}, err)
		return nil, fmt.Errorf("%s: invalid target url: %w", op, err)
	}

	shortCode, err := uc.alloc.Allocate(ctx, req.ShortCode)
	if err != nil {
		if errors.Is(err, entity.ErrShortCodeExists) {
			uc.emit(entity.EventShortCodeExists, map[string]any{"shortcode": req.ShortCode}, err)
		} else {
			uc.emit(entity.EventCreationFailed, map[string]any{"url": targetURL}, err)
		}

		return nil, fmt.Errorf("%s: failed to allocate short code: %w", op, err)
	}

	now := uc.clock.Now()
	url := &entity.URL{
		ShortCode:       shortCode,
		OriginalURL:     targetURL,
		ValidityMinutes: validity,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(validity) * time.Minute),
	}

	// Stats exist before the record becomes visible to redirects.
	if err := uc.statsRepo.Create(ctx, shortCode); err != nil {
		uc.emit(entity.EventCreationFailed, map[string]any{"shortcode": shortCode}, err)
		return nil, fmt.Errorf("%s: failed to create stats: %w", op, err)
	}

	if err := uc.urlRepo.Save(ctx, url); err != nil {
		_ = uc.statsRepo.Delete(ctx, shortCode)

		uc.emit(entity.EventCreationFailed, map[string]any{"shortcode": shortCode}, err)
		return nil, fmt.Errorf("%s: failed to save url: %w", op, err)
	}

	uc.emit(entity.EventURLCreated, map[string]any{
		"shortcode": shortCode,
		"url":       targetURL,
		"validity":  validity,
	}, nil)

	return url, nil
}

// ResolveRedirect returns the target of shortCode and records the visit.
// Expired URLs are rejected before anything is recorded.
func (uc *URLUseCase) ResolveRedirect(ctx context.Context, shortCode string, visit entity.Visit) (string, error) {
	const op = "usecase.URLUseCase.ResolveRedirect"

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			uc.emit(entity.EventShortCodeNotFound, map[string]any{"shortcode": shortCode}, err)
		}

		return "", fmt.Errorf("%s: failed to retrieve url: %w", op, err)
	}

	now := uc.clock.Now()
	if url.IsExpired(now) {
		uc.emit(entity.EventURLExpired, map[string]any{
			"shortcode":  shortCode,
			"expires_at": url.ExpiresAt,
		}, entity.ErrURLExpired)

		return "", fmt.Errorf("%s: %w", op, entity.ErrURLExpired)
	}

	event := entity.NewClickEvent(uc.newID(), now, visit)
	if _, err := uc.statsRepo.Append(ctx, shortCode, event); err != nil {
		return "", fmt.Errorf("%s: failed to record click: %w", op, err)
	}

	if _, err := uc.urlRepo.IncrementClickCount(ctx, shortCode); err != nil {
		return "", fmt.Errorf("%s: failed to count click: %w", op, err)
	}

	uc.emit(entity.EventURLRedirect, map[string]any{
		"shortcode":   shortCode,
		"destination": url.OriginalURL,
		"client_ip":   event.ClientIP,
	}, nil)

	return url.OriginalURL, nil
}

// Now reports the time of the use case clock.
func (uc *URLUseCase) Now() time.Time {
	return uc.clock.Now()
}

// CountURLs returns the number of stored URLs, expired ones included.
func (uc *URLUseCase) CountURLs(ctx context.Context) (int, error) {
	const op = "usecase.URLUseCase.CountURLs"

	n, err := uc.urlRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count urls: %w", op, err)
	}

	return n, nil
}

func (uc *URLUseCase) emit(eventType string, data map[string]any, err error) {
	// Sink failures are ignored.
	defer func() {
		_ = recover()
	}()

	uc.sink.Emit(entity.Event{
		Type: eventType,
		Time: uc.clock.Now(),
		Data: data,
		Err:  err,
	})
}

// normalizeURL prepends https:// to targets without a scheme and rejects
// anything that does not end up as an absolute http(s) URL.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", entity.ErrInvalidFormat
	}

	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if strings.Contains(raw, "://") {
			return "", entity.ErrInvalidFormat
		}
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", entity.ErrInvalidFormat
	}

	return raw, nil
}
