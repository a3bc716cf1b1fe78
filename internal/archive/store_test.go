package archive

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tusabogados/intake-platform/internal/intake"
)

func archivableSession() *intake.Session {
	s := intake.NewSession("sess-9")
	s.Name = "Luis"
	s.Email = "luis@example.com"
	s.Role = intake.RolePlaintiff
	s.Category = intake.CategoryCivil
	s.Description = "Incumplimiento de contrato de arriendo"
	s.ConfirmedSlot = &intake.Slot{ID: "wed-1530", Label: "Miércoles 1 de Octubre a las 3:30 de la tarde"}
	s.Stage = intake.StageClosed
	s.TurnCount = 7
	return s
}

func TestSaveIntake(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO intakes`).
		WithArgs(
			sqlmock.AnyArg(), "sess-9", "Luis", "luis@example.com", "",
			"plaintiff", "civil", "Incumplimiento de contrato de arriendo",
			"wed-1530", "Miércoles 1 de Octubre a las 3:30 de la tarde",
			"closed", 7, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewStore(db)
	err = store.SaveIntake(context.Background(), archivableSession(), []intake.TranscriptMessage{
		{Role: "user", Body: "hola"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveIntakeNilStore(t *testing.T) {
	var store *Store
	assert.NoError(t, store.SaveIntake(context.Background(), archivableSession(), nil))
}

func TestListRecent(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "session_id", "name", "email", "phone", "role", "category",
		"description", "slot_id", "slot_label", "stage", "turn_count", "created_at",
	}).AddRow(
		"7f4a1f64-9c3b-4f6e-9a61-2f47c1f1ad01", "sess-9", "Luis", "luis@example.com", "",
		"plaintiff", "civil", "Incumplimiento de contrato de arriendo",
		"wed-1530", "Miércoles 1 de Octubre a las 3:30 de la tarde", "closed", 7,
		time.Now().UTC(),
	)

	mock.ExpectQuery(`SELECT .+ FROM intakes`).WithArgs(10).WillReturnRows(rows)

	store := NewStore(db)
	records, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sess-9", records[0].SessionID)
	assert.Equal(t, "civil", records[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}
