package crm

import (
	"context"
	"encoding/json"
)

// Inserter is the slice of the store client the repository needs; tests swap
// in fakes.
type Inserter interface {
	Insert(ctx context.Context, table string, record any) (json.RawMessage, error)
}

// Repo performs single-row inserts against the hosted entity tables and hands
// back the created row (with server-assigned id and timestamps) verbatim for
// the response echo. Failures surface the provider error untouched; there is
// no retry because the insert is not idempotent.
type Repo struct {
	Store Inserter
}

func (r *Repo) Insert(ctx context.Context, kind Kind, record any) (json.RawMessage, error) {
	return r.Store.Insert(ctx, kind.Table(), record)
}
