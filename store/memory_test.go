package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mingle/types"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var _ DBStorer = s

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := types.Job{ID: uuid.New(), Kind: types.JobLayout, Status: types.JobDone, Pages: 2, CreatedAt: base, UpdatedAt: base}
	newer := types.Job{ID: uuid.New(), Kind: types.JobMerge, Status: types.JobFailed, Error: "no pages to merge", CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)}
	require.NoError(t, s.SaveJob(ctx, older))
	require.NoError(t, s.SaveJob(ctx, newer))

	t.Run("get", func(t *testing.T) {
		got, err := s.GetJobByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, older, *got)

		_, err = s.GetJobByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		jobs, err := s.ListJobs(ctx, 10)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, newer.ID, jobs[0].ID)
		assert.Equal(t, older.ID, jobs[1].ID)

		jobs, err = s.ListJobs(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("update keeps creation time", func(t *testing.T) {
		update := older
		update.Status = types.JobFailed
		update.CreatedAt = base.Add(time.Hour)
		require.NoError(t, s.SaveJob(ctx, update))

		got, err := s.GetJobByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, types.JobFailed, got.Status)
		assert.Equal(t, base, got.CreatedAt)
	})
}
