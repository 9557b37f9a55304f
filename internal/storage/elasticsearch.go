// internal/storage/elasticsearch.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"survey-workers/internal/common/logger"
	"survey-workers/internal/content/record"
)

// ElasticsearchStore indexes each record as a document in an index named
// after the destination table.
type ElasticsearchStore struct {
	client      *elasticsearch.Client
	indexPrefix string
	logger      logger.Logger
}

func NewElasticsearchStore(client *elasticsearch.Client, indexPrefix string, log logger.Logger) *ElasticsearchStore {
	return &ElasticsearchStore{
		client:      client,
		indexPrefix: indexPrefix,
		logger:      log.WithFields(map[string]interface{}{"store": "elasticsearch"}),
	}
}

func (s *ElasticsearchStore) IndexName(table string) string {
	return strings.ToLower(s.indexPrefix + table)
}

func (s *ElasticsearchStore) Insert(ctx context.Context, table string, rec record.Record) (record.Record, error) {
	if !identifierPattern.MatchString(table) {
		return record.Record{}, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}

	doc := withID(rec)
	idValue, _ := doc.Get("id")
	id, ok := idValue.AsString()
	if !ok {
		b, err := idValue.MarshalJSON()
		if err != nil {
			return record.Record{}, fmt.Errorf("%w: id: %v", ErrInsertFailed, err)
		}
		id = string(b)
	}

	body, err := doc.MarshalJSON()
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: encode document: %v", ErrInsertFailed, err)
	}

	index := s.IndexName(table)
	res, err := s.client.Index(
		index,
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(id),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %s: %v", ErrInsertFailed, index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return record.Record{}, fmt.Errorf("%w: %s: %s %s", ErrInsertFailed, index, res.Status(), strings.TrimSpace(string(msg)))
	}

	s.logger.Debug("Document indexed", map[string]interface{}{
		"index": index,
		"id":    id,
	})
	return doc, nil
}
