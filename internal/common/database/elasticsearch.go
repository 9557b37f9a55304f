// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"survey-workers/internal/common/config"
	"survey-workers/internal/common/logger"
)

// ElasticsearchClient holds the client the elasticsearch record store indexes through.
type ElasticsearchClient struct {
	Client    *elasticsearch.Client
	addresses []string
}

// NewElasticsearch builds a client from Addresses, or from URL when no
// addresses are listed. Gateway errors are retried by the transport.
func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch: no address configured")
	}

	esCfg := elasticsearch.Config{
		Addresses:     addresses,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		MaxRetries:    3,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es, addresses: addresses}, nil
}

// ConnectElasticsearch builds the client and waits, with backoff, for the cluster to answer.
func ConnectElasticsearch(ctx context.Context, cfg config.ElasticsearchConfig, log logger.Logger) (*ElasticsearchClient, error) {
	es, err := NewElasticsearch(cfg)
	if err != nil {
		return nil, err
	}
	if err := RetryWithBackoff(ctx, es.Ping, connectRetries, connectDelay, log, "Elasticsearch connection"); err != nil {
		return nil, err
	}
	log.Info("Elasticsearch connected", map[string]interface{}{"addresses": es.addresses})
	return es, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}
