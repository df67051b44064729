package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/vadimbarashkov/shortlinks/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	codeAlphabet        = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	generatedCodeLength = 6
	minCustomCodeLength = 4

	// maxGenerateAttempts bounds the collision retries. With 62^6 possible
	// codes this is a soft capacity limit rather than a guarantee.
	maxGenerateAttempts = 100
)

var shortCodeRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

type codeRegistry interface {
	Reserve(ctx context.Context, code string) error
}

// allocator hands out short codes that are unique for the process lifetime.
type allocator struct {
	registry codeRegistry
	generate func() (string, error)
}

func newAllocator(registry codeRegistry) *allocator {
	return &allocator{
		registry: registry,
		generate: func() (string, error) {
			return gonanoid.Generate(codeAlphabet, generatedCodeLength)
		},
	}
}

// Allocate reserves requested, or a freshly generated code when requested is empty.
func (a *allocator) Allocate(ctx context.Context, requested string) (string, error) {
	const op = "usecase.allocator.Allocate"

	if requested != "" {
		if !validShortCode(requested) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrInvalidFormat)
		}

		if err := a.registry.Reserve(ctx, requested); err != nil {
			return "", fmt.Errorf("%s: failed to reserve short code: %w", op, err)
		}

		return requested, nil
	}

	for i := 0; i < maxGenerateAttempts; i++ {
		code, err := a.generate()
		if err != nil {
			return "", fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		err = a.registry.Reserve(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, entity.ErrShortCodeExists) {
			return "", fmt.Errorf("%s: failed to reserve short code: %w", op, err)
		}
	}

	return "", fmt.Errorf("%s: %w", op, entity.ErrMaxRetriesExceeded)
}

func validShortCode(code string) bool {
	return len(code) >= minCustomCodeLength && shortCodeRe.MatchString(code)
}
