package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/config"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
)

// newTestDB は TEST_DATABASE_URL のデータベースに接続できなければテストをスキップする
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	raw := os.Getenv("TEST_DATABASE_URL")
	if raw == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	t.Setenv("DATABASE_URL", raw)
	cfg := config.Load()

	db, err := NewConnection(&cfg.Database)
	if err != nil {
		t.Skip("PostgreSQL not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Ping(ctx, db); err != nil {
		db.Close()
		t.Skip("PostgreSQL not available")
	}

	_, file, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
	require.NoError(t, RunMigrations(db.DB, migrations))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	name := "test-" + uuid.New().String()
	s := NewRecordStore(db, name)
	t.Cleanup(func() {
		db.Exec(`DELETE FROM store_records WHERE store = $1`, name)
	})

	t.Run("追記した順に読み出せる", func(t *testing.T) {
		require.NoError(t, s.Append(ctx, []string{"10/03/2025 - 14:00", "Sala 1", "Dune", "A1"}))
		require.NoError(t, s.Append(ctx, []string{"10/03/2025 - 14:00", "Sala 1", "Dune", "A2"}))

		records, err := s.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"10/03/2025 - 14:00", "Sala 1", "Dune", "A1"},
			{"10/03/2025 - 14:00", "Sala 1", "Dune", "A2"},
		}, records)
	})

	t.Run("他のストアのレコードは見えない", func(t *testing.T) {
		other := NewRecordStore(db, name+"-other")
		records, err := other.ReadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("区切り文字を含むフィールドは拒否する", func(t *testing.T) {
		assert.ErrorIs(t, s.Append(ctx, []string{"a;b"}), record.ErrInvalidField)
	})

	t.Run("上書きで内容を置き換える", func(t *testing.T) {
		require.NoError(t, s.Overwrite(ctx, [][]string{{"x", "y"}, {"z"}}))

		records, err := s.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"x", "y"}, {"z"}}, records)
	})

	t.Run("不正なレコードを含む上書きは何も変えない", func(t *testing.T) {
		err := s.Overwrite(ctx, [][]string{{"ok"}, {"bad\n"}})
		assert.ErrorIs(t, err, record.ErrInvalidField)

		records, err := s.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"x", "y"}, {"z"}}, records)
	})
}
