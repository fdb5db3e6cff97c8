package stats

import (
	"path/filepath"
	"testing"

	"github.com/brouwerict/PDF2UBL/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:         filepath.Join(t.TempDir(), "stats.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewStore(db, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestRecordUseAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordUse("generic_nl", true))
	require.NoError(t, store.RecordUse("generic_nl", false))
	require.NoError(t, store.RecordUse("generic_nl", true))

	u, err := store.Get("generic_nl")
	require.NoError(t, err)
	assert.Equal(t, "generic_nl", u.TemplateID)
	assert.Equal(t, 3, u.UsageCount)
	assert.Equal(t, 2, u.SuccessCount)
	assert.False(t, u.LastUsedAt.IsZero())
	assert.InDelta(t, 2.0/3.0, u.SuccessRate(), 1e-9)
}

func TestGetUnknownTemplate(t *testing.T) {
	store := newTestStore(t)

	u, err := store.Get("never_used")
	require.NoError(t, err)
	assert.Equal(t, "never_used", u.TemplateID)
	assert.Zero(t, u.UsageCount)
	assert.Zero(t, u.SuccessRate())
}

func TestAll(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordUse("b_nl", true))
	require.NoError(t, store.RecordUse("a_nl", false))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a_nl", all[0].TemplateID)
	assert.Equal(t, "b_nl", all[1].TemplateID)
}
