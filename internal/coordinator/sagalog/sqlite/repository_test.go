package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/sabor-storefront/internal/coordinator/sagalog"

	_ "modernc.org/sqlite"
)

func TestRepositorySaveAndList(t *testing.T) {
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "saga.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := New(db)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sagalog.NewEntry(ctx, "SS-1", sagalog.StatusStarted, "", `{"method":"pix"}`, nil)))
	require.NoError(t, repo.Save(ctx, sagalog.NewEntry(ctx, "SS-1", sagalog.StatusFailed, "create_payment", "", []string{"boom"})))
	require.NoError(t, repo.Save(ctx, sagalog.NewEntry(ctx, "SS-2", sagalog.StatusStarted, "", "", nil)))

	entries, err := repo.List(ctx, "SS-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, sagalog.StatusStarted, entries[0].Status)
	assert.JSONEq(t, `{"method":"pix"}`, entries[0].Payload)
	assert.Equal(t, sagalog.StatusFailed, entries[1].Status)
	assert.Equal(t, "create_payment", entries[1].CurrentStep)
	assert.Equal(t, []string{"boom"}, entries[1].Errors())
	assert.Empty(t, entries[1].TraceID)

	none, err := repo.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestJournalTimes(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 5, time.FixedZone("BRT", -3*3600))

	got, err := parseTime(formatTime(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(got))
	assert.Less(t, formatTime(at), formatTime(at.Add(time.Second)))

	got, err = parseTime("2026-03-10 15:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), got)

	_, err = parseTime("yesterday")
	assert.Error(t, err)
}
