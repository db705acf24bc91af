// Package hook provides lifecycle hooks for ledger events.
// Hooks can observe entry logging and invoice transitions to extend
// functionality (audit trails, notifications, exports).
package hook

import (
	"context"
	"log/slog"
	"sync"
)

// Hook is the base interface that all hooks must implement.
type Hook interface {
	Name() string
}

// OnEntryLogged is called after a time entry lands in the unbilled set.
type OnEntryLogged interface {
	Hook
	OnEntryLogged(ctx context.Context, e any) error
}

// OnInvoiceCreated is called after an invoice is created and the billed
// entries have left the unbilled set.
type OnInvoiceCreated interface {
	Hook
	OnInvoiceCreated(ctx context.Context, inv any) error
}

// OnInvoicePaid is called after an invoice's paid status changes.
type OnInvoicePaid interface {
	Hook
	OnInvoicePaid(ctx context.Context, inv any, paid bool) error
}

// Registry manages registered hooks and dispatches events to them.
// Hook failures are logged and swallowed: observers must never undo a
// committed ledger transition.
type Registry struct {
	mu     sync.RWMutex
	hooks  []Hook
	logger *slog.Logger

	onEntryLogged    []OnEntryLogged
	onInvoiceCreated []OnInvoiceCreated
	onInvoicePaid    []OnInvoicePaid
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{logger: slog.Default()}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a hook to the registry and caches its interfaces.
// Duplicate names are rejected silently; the first registration wins.
func (r *Registry) Register(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.hooks {
		if existing.Name() == h.Name() {
			r.logger.Warn("hook: duplicate registration ignored", "name", h.Name())
			return
		}
	}
	r.hooks = append(r.hooks, h)

	if v, ok := h.(OnEntryLogged); ok {
		r.onEntryLogged = append(r.onEntryLogged, v)
	}
	if v, ok := h.(OnInvoiceCreated); ok {
		r.onInvoiceCreated = append(r.onInvoiceCreated, v)
	}
	if v, ok := h.(OnInvoicePaid); ok {
		r.onInvoicePaid = append(r.onInvoicePaid, v)
	}
}

// EmitEntryLogged dispatches the entry-logged event.
func (r *Registry) EmitEntryLogged(ctx context.Context, e any) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.onEntryLogged {
		if err := h.OnEntryLogged(ctx, e); err != nil {
			r.logger.Error("hook: OnEntryLogged failed", "name", h.Name(), "error", err)
		}
	}
}

// EmitInvoiceCreated dispatches the invoice-created event.
func (r *Registry) EmitInvoiceCreated(ctx context.Context, inv any) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.onInvoiceCreated {
		if err := h.OnInvoiceCreated(ctx, inv); err != nil {
			r.logger.Error("hook: OnInvoiceCreated failed", "name", h.Name(), "error", err)
		}
	}
}

// EmitInvoicePaid dispatches the invoice-paid event.
func (r *Registry) EmitInvoicePaid(ctx context.Context, inv any, paid bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.onInvoicePaid {
		if err := h.OnInvoicePaid(ctx, inv, paid); err != nil {
			r.logger.Error("hook: OnInvoicePaid failed", "name", h.Name(), "error", err)
		}
	}
}
