// internal/batch/postgres_test.go
package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/piplapis/piplapis-go/internal/common/errors"
	"github.com/piplapis/piplapis-go/internal/common/logger"
	"github.com/piplapis/piplapis-go/pkg/pipl"
	"github.com/piplapis/piplapis-go/pkg/pipl/data"
)

// ==========================
// Postgres Sink Tests
// ==========================

func TestPostgresSink_Store(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO search_results`).
		WithArgs(
			sqlmock.AnyArg(), // result ID (UUID)
			"rec-1",
			"1582",
			sqlmock.AnyArg(), // query JSON
			sqlmock.AnyArg(), // person JSON
			1,
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sink := NewPostgresSink(db, logger.NewTestLogger(t))

	record := Record{ID: "rec-1", Email: "clark.kent@example.com"}
	resp := &pipl.SearchResponse{
		SearchID: "1582",
		Person: &data.Person{
			Emails: []data.Email{{Address: "clark.kent@example.com"}},
		},
	}

	assert.NoError(t, sink.Store(context.Background(), record, resp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_Store_CountsPossiblePersons(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO search_results`).
		WithArgs(
			sqlmock.AnyArg(),
			"rec-2",
			"1583",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			2,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sink := NewPostgresSink(db, logger.NewTestLogger(t))

	record := Record{ID: "rec-2", RawName: "Clark Kent"}
	resp := &pipl.SearchResponse{
		SearchID: "1583",
		PossiblePersons: []data.Person{
			{Names: []data.Name{{Raw: "Clark Kent"}}},
			{Names: []data.Name{{Raw: "Clark Joseph Kent"}}},
		},
	}

	assert.NoError(t, sink.Store(context.Background(), record, resp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_Store_WriteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO search_results`).
		WillReturnError(fmt.Errorf("connection refused"))

	sink := NewPostgresSink(db, logger.NewTestLogger(t))

	record := Record{ID: "rec-1", Email: "clark.kent@example.com"}
	err = sink.Store(context.Background(), record, &pipl.SearchResponse{SearchID: "1582"})
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeStorageWriteFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
