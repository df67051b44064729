// Package memory provides the in-process stores backing the shortener:
// the short code registry, the URL records and their click stats.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

// CodeRegistry is the set of short codes handed out during the process lifetime.
type CodeRegistry struct {
	mu    sync.Mutex
	codes map[string]struct{}
}

// NewCodeRegistry returns a registry in which the given codes are already taken.
func NewCodeRegistry(reserved ...string) *CodeRegistry {
	codes := make(map[string]struct{}, len(reserved))
	for _, code := range reserved {
		codes[code] = struct{}{}
	}

	return &CodeRegistry{codes: codes}
}

// Reserve claims code. The existence check and the insert happen under a
// single lock, so of several concurrent callers exactly one succeeds.
func (r *CodeRegistry) Reserve(_ context.Context, code string) error {
	const op = "adapter.repository.memory.CodeRegistry.Reserve"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[code]; ok {
		return fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
	}
	r.codes[code] = struct{}{}

	return nil
}

// Len returns the number of reserved codes.
func (r *CodeRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.codes)
}
