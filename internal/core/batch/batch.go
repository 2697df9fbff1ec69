// Package batch runs multi-request conversion batches: clients append items
// in chunks under one id and a final end-of-batch request evaluates them.
package batch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
)

// Status is the lifecycle state of a batch.
type Status string

const (
	StatusInitiated          Status = "initiated"
	StatusInserting          Status = "inserting"
	StatusFinished           Status = "finished"
	StatusFinishedWithErrors Status = "finished-with-errors"
)

// Finished reports whether s is terminal.
func (s Status) Finished() bool {
	return s == StatusFinished || s == StatusFinishedWithErrors
}

// Kind names the engine a batch belongs to.
type Kind string

const (
	KindRate       Kind = "rate"
	KindUnit       Kind = "unit"
	KindExpression Kind = "expression"
)

var (
	ErrBatchNotFound = fmt.Errorf("%w: batch", apperrors.ErrNotFound)
	ErrKindMismatch  = fmt.Errorf("%w: batch belongs to another converter", apperrors.ErrValidation)
	ErrBatchFinished = fmt.Errorf("%w: batch is already finished", apperrors.ErrValidation)
)

// Header is the kind-independent part of a stored batch.
type Header struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Batch is a stored batch with engine state S. Result holds the encoded
// evaluation result once the batch is finished.
type Batch[S any] struct {
	Header
	State  S               `json:"state"`
	Result json.RawMessage `json:"result,omitempty"`
}

// transition moves the batch to next, refusing to leave a terminal state.
func (b *Header) transition(next Status, at time.Time) error {
	if b.Status.Finished() {
		return ErrBatchFinished
	}
	b.Status = next
	b.UpdatedAt = at
	return nil
}
