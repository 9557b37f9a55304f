// internal/storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"survey-workers/internal/common/logger"
	"survey-workers/internal/content/record"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresStore inserts records as rows. Column names come from record
// fields; nested records and lists are stored as JSON.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "postgres"}),
	}
}

func (s *PostgresStore) Insert(ctx context.Context, table string, rec record.Record) (record.Record, error) {
	if !identifierPattern.MatchString(table) {
		return record.Record{}, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}

	row := withID(rec)
	fields := row.Fields()
	columns := make([]string, 0, len(fields))
	placeholders := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))

	for i, f := range fields {
		if !identifierPattern.MatchString(f.Name) {
			return record.Record{}, fmt.Errorf("%w: column %q", ErrInvalidIdentifier, f.Name)
		}
		arg, err := sqlValue(f.Value)
		if err != nil {
			return record.Record{}, fmt.Errorf("%w: column %s: %v", ErrInsertFailed, f.Name, err)
		}
		columns = append(columns, pq.QuoteIdentifier(f.Name))
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, arg)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		pq.QuoteIdentifier(table),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	var id string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return record.Record{}, fmt.Errorf("%w: %s: %v", ErrInsertFailed, table, err)
	}
	row.Set("id", record.String(id))

	s.logger.Debug("Row inserted", map[string]interface{}{
		"table":   table,
		"id":      id,
		"columns": len(columns),
	})
	return row, nil
}

func sqlValue(v record.Value) (interface{}, error) {
	switch v.Kind() {
	case record.KindString:
		s, _ := v.AsString()
		return s, nil
	case record.KindNumber:
		n, _ := v.AsNumber()
		return n, nil
	case record.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case record.KindRecord, record.KindList:
		return json.Marshal(v)
	default:
		return nil, nil
	}
}

// withID copies rec and assigns a UUID when it has no id field.
func withID(rec record.Record) record.Record {
	row := rec.Clone()
	if !row.Has("id") {
		row.Set("id", record.String(uuid.NewString()))
	}
	return row
}
