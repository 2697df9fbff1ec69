package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/google/uuid"
)

// Evaluator is the kind-specific part of a batch.
//
// Restore rebuilds handles that are not serialized with S. Add validates
// items and appends them to the state; when it fails the batch is not saved.
// Evaluate computes the result and reports whether any item failed.
type Evaluator[S, I, R any] interface {
	Restore(ctx context.Context, state *S) error
	Add(ctx context.Context, state *S, items []I) error
	Evaluate(ctx context.Context, id string, state *S) (R, bool, error)
}

// Outcome is the answer to one submission. Result is nil until the batch
// is finished.
type Outcome[R any] struct {
	ID     string
	Status Status
	Result *R
}

// Submission is one chunk sent to a batch. An empty BatchID starts a
// single-request batch that is evaluated right away.
type Submission[S, I any] struct {
	BatchID string
	Items   []I
	EOB     bool
	// Init returns the state of a new batch.
	Init func() S
}

// Process drives batches of one kind through append and finalize.
type Process[S, I, R any] struct {
	store *Store[S]
	eval  Evaluator[S, I, R]
}

// NewProcess binds an evaluator to a store.
func NewProcess[S, I, R any](store *Store[S], eval Evaluator[S, I, R]) *Process[S, I, R] {
	return &Process[S, I, R]{store: store, eval: eval}
}

// Submit appends a chunk and, on end of batch, evaluates the batch.
// Re-finalizing a finished batch returns its stored result.
func (p *Process[S, I, R]) Submit(ctx context.Context, sub Submission[S, I]) (*Outcome[R], error) {
	id := sub.BatchID
	eob := sub.EOB
	if id == "" {
		id = uuid.NewString()
		eob = true
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidationError("batch_id must be a UUID")
	}

	unlock, err := p.store.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("waiting for batch %s: %w", id, err)
	}
	defer unlock()

	b, _, err := p.store.LoadOrCreate(ctx, id, sub.Init)
	if err != nil {
		return nil, err
	}

	if b.Status.Finished() {
		if len(sub.Items) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrBatchFinished, id)
		}
		return p.stored(b)
	}

	if err := p.eval.Restore(ctx, &b.State); err != nil {
		return nil, err
	}

	if len(sub.Items) > 0 {
		if err := p.eval.Add(ctx, &b.State, sub.Items); err != nil {
			return nil, err
		}
		if err := b.transition(StatusInserting, p.store.now().UTC()); err != nil {
			return nil, err
		}
	}

	if !eob {
		if err := p.store.Save(ctx, b); err != nil {
			return nil, err
		}
		return &Outcome[R]{ID: id, Status: b.Status}, nil
	}

	res, failed, err := p.eval.Evaluate(ctx, id, &b.State)
	if err != nil {
		return nil, err
	}
	next := StatusFinished
	if failed {
		next = StatusFinishedWithErrors
	}
	if err := b.transition(next, p.store.now().UTC()); err != nil {
		return nil, err
	}
	if b.Result, err = json.Marshal(res); err != nil {
		return nil, fmt.Errorf("encoding result of batch %s: %w", id, err)
	}
	if err := p.store.Save(ctx, b); err != nil {
		return nil, err
	}
	return &Outcome[R]{ID: id, Status: b.Status, Result: &res}, nil
}

func (p *Process[S, I, R]) stored(b *Batch[S]) (*Outcome[R], error) {
	var res R
	if err := json.Unmarshal(b.Result, &res); err != nil {
		return nil, fmt.Errorf("decoding result of batch %s: %w", b.ID, err)
	}
	return &Outcome[R]{ID: b.ID, Status: b.Status, Result: &res}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
