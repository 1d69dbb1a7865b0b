package live_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/mabhi256/hprofdump/internal/consumers/live"
	"github.com/mabhi256/hprofdump/internal/hprof"
	"github.com/stretchr/testify/require"
)

func minimalStream(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("JAVA PROFILE 1.0.2")
	buf.WriteByte(0)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], 8)
	buf.Write(u4[:])
	buf.Write(make([]byte, 8)) // timestamp

	buf.WriteByte(0x01) // TagUTF8
	buf.Write(make([]byte, 4))
	body := make([]byte, 8+1)
	body[8] = 'x'
	binary.BigEndian.PutUint32(u4[:], uint32(len(body)))
	buf.Write(u4[:])
	buf.Write(body)

	return buf.Bytes()
}

func TestCountsTalliesAndSnapshots(t *testing.T) {
	counts := live.NewCounts()
	err := hprof.Decode(context.Background(), bytes.NewReader(minimalStream(t)), counts)
	require.NoError(t, err)

	snap := counts.Snapshot()
	require.NotNil(t, snap.Header)
	require.Equal(t, 1, snap.ByTag[hprof.TagUTF8])
	require.Equal(t, 1, snap.TotalRecords)
	require.False(t, snap.Done)
}

func TestCountsSnapshotIsACopy(t *testing.T) {
	counts := live.NewCounts()
	require.NoError(t, hprof.Decode(context.Background(), bytes.NewReader(minimalStream(t)), counts))

	snap := counts.Snapshot()
	snap.ByTag[hprof.TagUTF8] = 99

	again := counts.Snapshot()
	require.Equal(t, 1, again.ByTag[hprof.TagUTF8], "mutating a returned snapshot must not affect Counts' internal state")
}

func TestMarkDoneSetsDoneAndErr(t *testing.T) {
	counts := live.NewCounts()
	require.False(t, counts.Snapshot().Done)

	counts.MarkDone(nil)
	snap := counts.Snapshot()
	require.True(t, snap.Done)
	require.NoError(t, snap.Err)
}
