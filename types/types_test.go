package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriority(t *testing.T) {
	require.NoError(t, PriorityLowest.Valid())
	require.NoError(t, PriorityMonitor.Valid())
	require.Error(t, Priority(-1).Valid())
	require.Error(t, Priority(6).Valid())

	require.Equal(t, "normal", PriorityNormal.String())
	require.Equal(t, "monitor", PriorityMonitor.String())
	require.Equal(t, "unknown", Priority(42).String())

	require.True(t, PriorityLowest < PriorityMonitor)
}

func TestCancel(t *testing.T) {
	var c Cancel
	require.False(t, c.Cancelled())

	c.SetCancelled(true)
	require.True(t, c.Cancelled())

	c.SetCancelled(false)
	require.False(t, c.Cancelled())
}

func TestExecutorIDValid(t *testing.T) {
	require.NoError(t, ExecutorID("abc123").Valid())
	require.Error(t, ExecutorID("").Valid())
	require.Error(t, ExecutorID("@bridge").Valid())
}

func TestRemoteEvent(t *testing.T) {
	record := &Record{
		Name: "player.chat",
		Meta: Meta{"player": "steve"},
	}
	evt := &RemoteEvent{Record: record}
	require.Equal(t, Name("player.chat"), evt.EventName())
	require.Equal(t, record.Meta, evt.EventMeta())
}
