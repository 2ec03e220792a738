package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/contacts_services/internal/datashare_service/domain"
)

func setupProviderTest(t *testing.T) (*PgProvider, pgxmock.PgxPoolIface, domain.Table) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table, err := domain.TableForURI(domain.VoicemailURI)
	require.NoError(t, err)
	return NewPgProvider(mockPool, logger), mockPool, table
}

func TestPgProvider_Query(t *testing.T) {
	provider, mockPool, table := setupProviderTest(t)
	defer mockPool.Close()

	rows := mockPool.NewRows([]string{"id", "phone_number"}).
		AddRow(int64(1), "5550100").
		AddRow(int64(2), "5550100")
	mockPool.ExpectQuery(`SELECT id, phone_number FROM voicemail WHERE phone_number = \$1 ORDER BY id ASC`).
		WithArgs("5550100").
		WillReturnRows(rows)

	rs, err := provider.Query(context.Background(), table, []string{"id", "phone_number"},
		domain.NewPredicates().EqualTo("phone_number", "5550100").OrderByAsc("id"))

	require.NoError(t, err)
	assert.Equal(t, []string{"id", "phone_number"}, rs.Columns)
	assert.Equal(t, 2, rs.RowCount())
	assert.Equal(t, []any{int64(2), "5550100"}, rs.Rows[1])
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgProvider_Insert(t *testing.T) {
	provider, mockPool, table := setupProviderTest(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(`INSERT INTO voicemail \(phone_number, voice_status\) VALUES \(\$1, \$2\) RETURNING id`).
		WithArgs("5550100", 0).
		WillReturnRows(mockPool.NewRows([]string{"id"}).AddRow(int64(31)))

	id, err := provider.Insert(context.Background(), table, domain.Values{"voice_status": 0, "phone_number": "5550100"})
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgProvider_UpdateAndDelete(t *testing.T) {
	provider, mockPool, table := setupProviderTest(t)
	defer mockPool.Close()

	mockPool.ExpectExec(`UPDATE voicemail SET display_name = \$1 WHERE id = \$2`).
		WithArgs("zhangming", 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	n, err := provider.Update(context.Background(), table, domain.Values{"display_name": "zhangming"},
		domain.NewPredicates().EqualTo("id", 7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mockPool.ExpectExec(`DELETE FROM voicemail WHERE id > \$1`).
		WithArgs(0).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	n, err = provider.Delete(context.Background(), table, domain.NewPredicates().GreaterThan("id", 0))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgProvider_BatchInsert(t *testing.T) {
	rows := []domain.Values{
		{"phone_number": "5550100"},
		{"phone_number": "5550101"},
	}

	t.Run("Commit", func(t *testing.T) {
		provider, mockPool, table := setupProviderTest(t)
		defer mockPool.Close()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(`INSERT INTO voicemail \(phone_number\)`).WithArgs("5550100").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectExec(`INSERT INTO voicemail \(phone_number\)`).WithArgs("5550101").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		n, err := provider.BatchInsert(context.Background(), table, rows)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("RollbackOnFailure", func(t *testing.T) {
		provider, mockPool, table := setupProviderTest(t)
		defer mockPool.Close()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(`INSERT INTO voicemail`).WithArgs("5550100").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectExec(`INSERT INTO voicemail`).WithArgs("5550101").WillReturnError(errors.New("constraint"))
		mockPool.ExpectRollback()

		n, err := provider.BatchInsert(context.Background(), table, rows)
		require.Error(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgProvider_InvalidPredicatesNeverReachDB(t *testing.T) {
	provider, mockPool, table := setupProviderTest(t)
	defer mockPool.Close()

	_, err := provider.Delete(context.Background(), table, domain.NewPredicates().EqualTo("ring_duration", 1))
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgProvider_MutationsRejectOrderingAndLimit(t *testing.T) {
	provider, mockPool, table := setupProviderTest(t)
	defer mockPool.Close()

	_, err := provider.Update(context.Background(), table, domain.Values{"voice_status": 1},
		domain.NewPredicates().EqualTo("id", 1).Limit(1, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidPredicate)

	_, err = provider.Delete(context.Background(), table, domain.NewPredicates().OrderByDesc("id"))
	assert.ErrorIs(t, err, domain.ErrInvalidPredicate)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgProvider_QueryContains(t *testing.T) {
	provider, mockPool, table := setupProviderTest(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(`SELECT phone_number FROM voicemail WHERE strpos\(phone_number::text, \$1::text\) > 0`).
		WithArgs("0100").
		WillReturnRows(mockPool.NewRows([]string{"phone_number"}).AddRow("5550100"))

	rs, err := provider.Query(context.Background(), table, []string{"phone_number"},
		domain.NewPredicates().Contains("phone_number", "0100"))

	require.NoError(t, err)
	assert.Equal(t, [][]any{{"5550100"}}, rs.Rows)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
