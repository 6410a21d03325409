package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return &DB{DB: sqlDB, logger: zap.NewNop()}, mock
}

func TestQueryLogRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueryLogRepository(db, zap.NewNop())

	userID := uuid.New()
	entry := models.NewQueryLog(&userID, "What birds live here?", "Here's what I found").
		WithRelated([]string{}, []string{"abc"}).
		WithSources([]string{"Internal Knowledge Base"})

	mock.ExpectExec("INSERT INTO query_log").
		WithArgs(
			entry.ID,
			entry.UserID,
			entry.Question,
			entry.Answer,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			entry.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), entry)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLogRepository_Insert_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueryLogRepository(db, zap.NewNop())

	mock.ExpectExec("INSERT INTO query_log").
		WillReturnError(errors.New("connection reset"))

	err := repo.Insert(context.Background(), models.NewQueryLog(nil, "q", "a"))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLogRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueryLogRepository(db, zap.NewNop())

	userID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "question", "answer",
		"related_observation_ids", "related_species_ids", "sources_used", "created_at",
	}).AddRow(
		uuid.New().String(), userID.String(), "What birds live here?", "Here's what I found",
		"{}", "{abc}", `{"Internal Knowledge Base"}`, now,
	).AddRow(
		uuid.New().String(), userID.String(), "Where do leopards live?", "In the hills",
		"{obs1,obs2}", "{}", "{}", now.Add(-time.Hour),
	)

	mock.ExpectQuery("SELECT (.+) FROM query_log").
		WithArgs(userID, 50).
		WillReturnRows(rows)

	entries, err := repo.ListByUser(context.Background(), userID, 50)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "What birds live here?", entries[0].Question)
	assert.Equal(t, []string{"abc"}, entries[0].RelatedSpeciesIDs)
	assert.Equal(t, []string{"Internal Knowledge Base"}, entries[0].SourcesUsed)
	assert.Equal(t, []string{"obs1", "obs2"}, entries[1].RelatedObservationIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLogRepository_ListByUser_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueryLogRepository(db, zap.NewNop())

	userID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM query_log").
		WithArgs(userID, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "question", "answer",
			"related_observation_ids", "related_species_ids", "sources_used", "created_at",
		}))

	entries, err := repo.ListByUser(context.Background(), userID, 10)

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
