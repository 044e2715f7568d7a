package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"gorm.io/gorm"
)

type BaseDeps struct {
	DB     *gorm.DB
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil && d.DB != nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// ExecuteWrite runs fn in one transaction, maps its failure and reports the
// outcome to the configured hooks.
func ExecuteWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "store.write"
	}
	var err error
	if deps.Runner == nil {
		err = domainagg.NewError(domainagg.CodeInternal, op, "no transaction runner configured", nil)
	} else {
		err = deps.Runner.InTx(ctx, fn)
	}
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = errorStatus(mapped)
		switch domainagg.CodeOf(mapped) {
		case domainagg.CodeConflict:
			deps.Hooks.IncConflict(op)
		case domainagg.CodeStoreUnavailable:
			deps.Hooks.IncUnavailable(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func errorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		return "failure"
	}
	return code
}
