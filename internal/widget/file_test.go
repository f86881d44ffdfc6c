package widget

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileSinkWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "widgets")
	sink, err := NewFileSink(dir, zap.NewNop())
	require.NoError(t, err)

	_, ok, err := sink.Read(7)
	require.NoError(t, err)
	assert.False(t, ok)

	snap := Snapshot{
		TelegramID: 7,
		Date:       "2024-06-14",
		Completed:  2,
		Total:      3,
		Streak:     5,
		NextDose:   &NextDose{Time: "21:00", Context: "bedtime", Supplements: []string{"Магний"}},
		UpdatedAt:  time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sink.Write(context.Background(), snap))

	got, ok, err := sink.Read(7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)

	_, err = os.Stat(filepath.Join(dir, "7.json.tmp"))
	assert.True(t, os.IsNotExist(err))

	snap.Completed = 3
	snap.NextDose = nil
	require.NoError(t, sink.Write(context.Background(), snap))
	got, _, err = sink.Read(7)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Completed)
	assert.Nil(t, got.NextDose)
}

func TestFileSinkHonoursContext(t *testing.T) {
	sink, err := NewFileSink(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Write(ctx, Snapshot{TelegramID: 1}), context.Canceled)
}
