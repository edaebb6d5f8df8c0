// internal/batch/elasticsearch.go
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "github.com/piplapis/piplapis-go/internal/common/errors"
	"github.com/piplapis/piplapis-go/internal/common/logger"
	"github.com/piplapis/piplapis-go/pkg/pipl"
)

// ElasticsearchSink indexes each enrichment result as one document.
// The record ID doubles as the document ID, so re-running a batch
// overwrites instead of duplicating.
type ElasticsearchSink struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticsearchSink(client *elasticsearch.Client, index string, log logger.Logger) *ElasticsearchSink {
	return &ElasticsearchSink{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"sink": "elasticsearch"}),
	}
}

func (s *ElasticsearchSink) Name() string { return "elasticsearch" }

func (s *ElasticsearchSink) Store(ctx context.Context, record Record, resp *pipl.SearchResponse) error {
	doc := map[string]interface{}{
		"record_id":     record.ID,
		"search_id":     resp.SearchID,
		"query":         record,
		"person":        resp.Person,
		"persons_count": personsFound(resp),
		"created_at":    time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewStorageWriteFailedError("elasticsearch", fmt.Errorf("marshal document: %w", err))
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: record.ID,
		Body:       strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewStorageWriteFailedError("elasticsearch", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewStorageWriteFailedError("elasticsearch", fmt.Errorf("index request failed: %s", res.String()))
	}

	s.logger.Debug("result indexed", map[string]interface{}{
		"recordId": record.ID,
		"searchId": resp.SearchID,
		"index":    s.index,
	})
	return nil
}

func (s *ElasticsearchSink) Close() error {
	return nil
}
