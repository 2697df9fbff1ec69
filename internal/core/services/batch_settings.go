package services

import "github.com/SscSPs/geocurrency/internal/core/batch"

// BatchSettings is the storage shared by the converter services. Locks is
// shared so one batch id is never processed by two converters at once.
type BatchSettings struct {
	Cache  batch.Cache
	Config batch.StoreConfig
	Locks  *batch.KeyedMutex
}
