package ledger

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/pkg/tablelock"
	ws "github.com/chiptally/chiptally-backend/internal/pkg/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockedService(t *testing.T) (*ledgerService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDb.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDb}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	hub := ws.NewRoomHub()
	return &ledgerService{
		db:       db,
		hub:      hub,
		activity: &activity.Service{Db: db, Hub: hub},
		locks:    tablelock.New(),
	}, mock
}

func playerRows(id string, tableId string, name string, chips int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "table_id", "name", "money_count", "is_active", "last_seen"}).
		AddRow(id, tableId, name, chips, true, time.Now().UTC())
}

// A bet past the player's balance must abort the transaction outright: no pot
// update, no log row, and a rollback instead of a commit.
func TestPlaceBetInsufficientChipsRollsBack(t *testing.T) {
	s, mock := newMockedService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "players"`).
		WithArgs("player-1", "table-1").
		WillReturnRows(playerRows("player-1", "table-1", "Alice", 30))
	mock.ExpectQuery(`UPDATE players`).
		WithArgs(int64(50), sqlmock.AnyArg(), "player-1", int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"money_count"}))
	mock.ExpectRollback()

	result, problem := s.placeBet("table-1", "player-1", 50)

	assert.Nil(t, result)
	require.NotNil(t, problem)
	assert.ErrorIs(t, problem.Cause, errInsufficientChips)
	assert.Equal(t, http.StatusBadRequest, problem.Problem.Status)
	assert.NoError(t, mock.ExpectationsWereMet(),
		"nothing beyond the guarded balance update may run")
}

// Taking more than the pot holds mirrors the bet guard: the transaction ends
// before the player's balance is ever touched.
func TestTakeFromPotUnderflowRollsBack(t *testing.T) {
	s, mock := newMockedService(t)

	creator := "creator-1"
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tables"`).
		WithArgs("table-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "created_by", "current_pot"}).
			AddRow("table-1", "Friday", time.Now().UTC(), creator, int64(20)))
	mock.ExpectQuery(`SELECT \* FROM "players"`).
		WithArgs("player-1", "table-1").
		WillReturnRows(playerRows("player-1", "table-1", "Alice", 30))
	mock.ExpectQuery(`UPDATE tables`).
		WithArgs(int64(50), "table-1", int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"current_pot"}))
	mock.ExpectRollback()

	result, problem := s.takeFromPot("table-1", "player-1", 50)

	assert.Nil(t, result)
	require.NotNil(t, problem)
	assert.ErrorIs(t, problem.Cause, errPotUnderflow)
	assert.Equal(t, http.StatusBadRequest, problem.Problem.Status)
	assert.NoError(t, mock.ExpectationsWereMet(),
		"the player balance update must not run after the pot guard fails")
}
