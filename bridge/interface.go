package bridge

import (
	"context"

	"github.com/openbukkitutils/eventive/bridge/redis"
	"github.com/openbukkitutils/eventive/types"
)

var (
	_ Interface = new(redis.Type)
)

// Interface is a bridge backend that carries event records between hosts
type Interface interface {
	Name() string
	// Put put record into the bridge
	Put(ctx context.Context, record *types.Record) error
	// Get get records from the bridge
	//
	// you can read records from recordChan,
	// if recordChan is closed, then you can get err from errChan.
	Get(ctx context.Context, name types.Name) (recordChan <-chan *types.Record, errChan <-chan error)
	// Commit mark record as done
	//
	// not all backends support this feature.
	Commit(ctx context.Context, record *types.Record) error
}
