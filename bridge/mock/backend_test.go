package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openbukkitutils/eventive/types"
)

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	backend, err := New()
	require.NoError(t, err)

	var name types.Name = "player.join"
	require.NoError(t, backend.Put(ctx, &types.Record{Name: name}))
	require.NoError(t, backend.Put(ctx, &types.Record{Name: "player.chat"}))

	recordChan, _ := backend.Get(ctx, name)
	record := <-recordChan
	require.Equal(t, name, record.Name)

	select {
	case record = <-recordChan:
		t.Fatalf("unexpected record %s", record.Name)
	default:
	}
}

func TestGetErrChanNeverBlocks(t *testing.T) {
	ctx := context.Background()
	backend, err := New()
	require.NoError(t, err)

	_, errChan := backend.Get(ctx, "player.join")
	select {
	case err, ok := <-errChan:
		require.False(t, ok)
		require.NoError(t, err)
	default:
		t.Fatal("errChan must not block consumers")
	}
}
