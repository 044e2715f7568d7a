package aggregates

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
)

// HooksRecorder captures hook signals; used by tests across packages.
type HooksRecorder struct {
	mu sync.Mutex

	Operations  []OperationEvent
	Conflicts   []string
	Unavailable []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncUnavailable(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Unavailable = append(h.Unavailable, name)
}

// FailingTxRunner refuses to open transactions with Err. It stands in for an
// unreachable store.
type FailingTxRunner struct {
	Err   error
	Calls int
}

var _ TxRunner = (*FailingTxRunner)(nil)

func (r *FailingTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.Calls++
	return r.Err
}
