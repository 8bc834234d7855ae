package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usdl-offering/db"
)

const existsQuery = "SELECT EXISTS (SELECT 1 FROM offering_versions WHERE organization = $1 AND name = $2)"

func TestHasPriorVersion(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	store := NewStore(sqlDB)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs("org", "offering").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.HasPriorVersion(ctx, "Org", " offering")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs("org", "new").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = store.HasPriorVersion(ctx, "org", "new")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasPriorVersionError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs("org", "offering").
		WillReturnError(errors.New("connection reset"))

	_, err = NewStore(sqlDB).HasPriorVersion(context.Background(), "org", "offering")
	assert.ErrorContains(t, err, "connection reset")
}

func TestRecordVersion(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	v := db.NewOfferingVersion("Org", "Offering", "1.0", false, []byte("doc"))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offering_versions")).
		WithArgs(v.ID.String(), "org", "offering", "1.0", v.Hash, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewStore(sqlDB).RecordVersion(context.Background(), v))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordVersionDuplicate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offering_versions")).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err = NewStore(sqlDB).RecordVersion(context.Background(), db.NewOfferingVersion("org", "offering", "1.0", false, nil))
	assert.ErrorIs(t, err, db.ErrVersionExists)
}

func TestEnsureSchema(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS offering_versions")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewStore(sqlDB).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
