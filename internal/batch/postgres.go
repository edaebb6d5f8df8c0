// internal/batch/postgres.go
package batch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/piplapis/piplapis-go/internal/common/errors"
	"github.com/piplapis/piplapis-go/internal/common/logger"
	"github.com/piplapis/piplapis-go/pkg/pipl"
)

// PostgresSink appends each enrichment result to the search_results
// table, with the query and matched person stored as JSONB.
type PostgresSink struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSink(db *sql.DB, log logger.Logger) *PostgresSink {
	return &PostgresSink{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"sink": "postgres"}),
	}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Store(ctx context.Context, record Record, resp *pipl.SearchResponse) error {
	resultID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	queryJSON, err := json.Marshal(record)
	if err != nil {
		return apperrors.NewStorageWriteFailedError("postgres", fmt.Errorf("marshal query: %w", err))
	}
	personJSON, err := json.Marshal(resp.Person)
	if err != nil {
		return apperrors.NewStorageWriteFailedError("postgres", fmt.Errorf("marshal person: %w", err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO search_results (
			id, record_id, search_id, query, person, persons_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		resultID,
		record.ID,
		resp.SearchID,
		queryJSON,
		personJSON,
		personsFound(resp),
		createdAt,
	)
	if err != nil {
		return apperrors.NewStorageWriteFailedError("postgres", fmt.Errorf("insert failed: %w", err))
	}

	s.logger.Debug("result stored", map[string]interface{}{
		"resultId": resultID,
		"recordId": record.ID,
		"searchId": resp.SearchID,
	})
	return nil
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}
