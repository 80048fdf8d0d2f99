package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/chamada/internal/match"
)

func testGallery() []match.GalleryEntry {
	return []match.GalleryEntry{
		{USN: "1MS21CS001", Embedding: []float64{0.6, 0.8}},
		{USN: "1MS21CS002", Embedding: []float64{1, 0}},
	}
}

func TestGalleryCache_GetGallery(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		gc := NewGalleryCache(NewPGCacheWithDB(mock), time.Minute)

		data, err := json.Marshal(testGallery())
		require.NoError(t, err)

		rows := pgxmock.NewRows([]string{"value", "expires_at"}).
			AddRow(data, time.Now().Add(time.Minute))

		mock.ExpectQuery("SELECT value, expires_at").
			WithArgs("gallery:A").
			WillReturnRows(rows)

		gallery, ok := gc.GetGallery(context.Background(), "A")
		assert.True(t, ok)
		assert.Equal(t, testGallery(), gallery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		gc := NewGalleryCache(NewPGCacheWithDB(mock), time.Minute)

		mock.ExpectQuery("SELECT value, expires_at").
			WithArgs("gallery:A").
			WillReturnError(pgx.ErrNoRows)

		gallery, ok := gc.GetGallery(context.Background(), "A")
		assert.False(t, ok)
		assert.Nil(t, gallery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupted entry dropped", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		gc := NewGalleryCache(NewPGCacheWithDB(mock), time.Minute)

		rows := pgxmock.NewRows([]string{"value", "expires_at"}).
			AddRow([]byte("not json"), time.Now().Add(time.Minute))

		mock.ExpectQuery("SELECT value, expires_at").
			WithArgs("gallery:A").
			WillReturnRows(rows)
		mock.ExpectExec("DELETE FROM cache_entries").
			WithArgs("gallery:A").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		gallery, ok := gc.GetGallery(context.Background(), "A")
		assert.False(t, ok)
		assert.Nil(t, gallery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGalleryCache_SetGallery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	gc := NewGalleryCache(NewPGCacheWithDB(mock), time.Minute)

	mock.ExpectExec("INSERT INTO cache_entries").
		WithArgs("gallery:A", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = gc.SetGallery(context.Background(), "A", testGallery())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGalleryCache_Invalidate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	gc := NewGalleryCache(NewPGCacheWithDB(mock), time.Minute)

	mock.ExpectExec("DELETE FROM cache_entries").
		WithArgs("gallery:A").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = gc.Invalidate(context.Background(), "A")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewGalleryCache_DefaultTTL(t *testing.T) {
	gc := NewGalleryCache(NewPGCacheWithDB(nil), 0)
	assert.Equal(t, 5*time.Minute, gc.ttl)
}
