package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"sedesupport/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var roleCols = []string{"id", "name", "description", "parent_id", "created_at", "updated_at"}

func TestRoleRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("null parent becomes nil pointer", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, name, description, parent_id, created_at, updated_at`).
			WillReturnRows(sqlmock.NewRows(roleCols).
				AddRow("role-1", "Coordinador", "", nil, now, now).
				AddRow("role-2", "Técnico", "soporte en sitio", "role-1", now, now))

		repo := NewRoleRepository(db)
		got, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Nil(t, got[0].ParentID)
		require.NotNil(t, got[1].ParentID)
		require.Equal(t, "role-1", *got[1].ParentID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, name, description, parent_id`).
			WillReturnError(sql.ErrConnDone)

		repo := NewRoleRepository(db)
		got, err := repo.ListAll(ctx)
		require.Error(t, err)
		require.Nil(t, got)
	})
}

func TestRoleRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newName := "Supervisor"

	t.Run("move to root sets parent null", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE roles SET updated_at = NOW\(\), parent_id = \$1`).
			WithArgs(nil, "role-2").
			WillReturnRows(sqlmock.NewRows(roleCols).
				AddRow("role-2", "Técnico", "", nil, now, now))

		repo := NewRoleRepository(db)
		got, err := repo.Update(ctx, "role-2", domain.RoleUpdate{SetParent: true, ParentID: nil})
		require.NoError(t, err)
		require.Nil(t, got.ParentID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rename only leaves parent untouched", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE roles SET updated_at = NOW\(\), name = \$1`).
			WithArgs("Supervisor", "role-1").
			WillReturnRows(sqlmock.NewRows(roleCols).
				AddRow("role-1", "Supervisor", "", nil, now, now))

		repo := NewRoleRepository(db)
		got, err := repo.Update(ctx, "role-1", domain.RoleUpdate{Name: &newName})
		require.NoError(t, err)
		require.Equal(t, "Supervisor", got.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRoleRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "role-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM roles WHERE id = \$1`).
					WithArgs("role-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "role-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM roles WHERE id = \$1`).
					WithArgs("role-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   "role-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM roles WHERE id = \$1`).
					WithArgs("role-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRoleRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
