// internal/storage/memory.go
package storage

import (
	"context"
	"fmt"
	"sync"

	"survey-workers/internal/content/record"
)

// MemoryStore keeps records in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[string][]record.Record
	failures map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[string][]record.Record),
		failures: make(map[string]error),
	}
}

// FailTable makes every insert into table return err. A nil err clears it.
func (s *MemoryStore) FailTable(table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, table)
		return
	}
	s.failures[table] = err
}

func (s *MemoryStore) Insert(ctx context.Context, table string, rec record.Record) (record.Record, error) {
	if err := ctx.Err(); err != nil {
		return record.Record{}, err
	}
	if !identifierPattern.MatchString(table) {
		return record.Record{}, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failures[table]; ok {
		return record.Record{}, fmt.Errorf("%w: %s: %v", ErrInsertFailed, table, err)
	}
	row := withID(rec)
	s.tables[table] = append(s.tables[table], row)
	return row.Clone(), nil
}

// Records returns copies of the rows stored in table.
func (s *MemoryStore) Records(table string) []record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	out := make([]record.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
