package redis

import (
	"context"
	"strings"

	gredis "github.com/Laisky/go-redis"
	gutils "github.com/Laisky/go-utils"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/openbukkitutils/eventive/internal/consts"
	"github.com/openbukkitutils/eventive/types"
)

// Type bridge backend base on redis
type Type struct {
	rdbKeyPrefix string
	rdb          *gredis.Utils
	logger       *gutils.LoggerType
}

// OptFunc optional arguments
type OptFunc func(t *Type) error

// WithRDBCli set redis client
func WithRDBCli(rdb *redis.Client) OptFunc {
	return func(t *Type) error {
		if rdb == nil {
			return errors.Errorf("rdb is nil")
		}

		t.rdb = gredis.NewRedisUtils(rdb)
		return nil
	}
}

// WithLogger set internal logger
func WithLogger(l *gutils.LoggerType) OptFunc {
	return func(t *Type) error {
		if l == nil {
			return errors.Errorf("logger is nil")
		}

		t.logger = l
		return nil
	}
}

// WithKeyPrefix set redis key prefix
func WithKeyPrefix(prefix string) OptFunc {
	return func(t *Type) error {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			return errors.Errorf("prefix is empty")
		}

		if prefix[len(prefix)-1] != '/' {
			prefix += "/"
		}

		t.rdbKeyPrefix = prefix
		return nil
	}
}

// New create bridge backend depends on redis
func New(optfs ...OptFunc) (t *Type, err error) {
	t = &Type{
		rdbKeyPrefix: "/eventive/",
	}
	for _, optf := range optfs {
		if err := optf(t); err != nil {
			return nil, err
		}
	}

	if t.rdb == nil {
		t.rdb = gredis.NewRedisUtils(redis.NewClient(new(redis.Options)))
	}

	if t.logger == nil {
		if t.logger, err = gutils.NewConsoleLoggerWithName("redis-bridge", gutils.LoggerLevelInfo); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Name get name of bridge backend
func (t *Type) Name() string {
	return "redis"
}

// RDBKey generate redis key by event name
func (t *Type) RDBKey(name types.Name) string {
	return t.rdbKeyPrefix + consts.RedisKeyQueue + name.String() + "/"
}

// Put put record into the bridge
func (t *Type) Put(ctx context.Context, record *types.Record) error {
	msg, err := gutils.JSON.MarshalToString(record)
	if err != nil {
		return err
	}

	return t.rdb.RPush(ctx, t.RDBKey(record.Name), msg)
}

// Get get records from the bridge
func (t *Type) Get(ctx context.Context, name types.Name) (<-chan *types.Record, <-chan error) {
	recordChan := make(chan *types.Record)
	// buffered so the producer can park the error and close recordChan;
	// consumers only read errChan after recordChan is drained.
	errChan := make(chan error, 1)
	go func() {
		defer close(recordChan)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			_, v, err := t.rdb.LPopKeysBlocking(ctx, t.RDBKey(name))
			if err != nil {
				errChan <- err
				return
			}

			record := new(types.Record)
			if err = gutils.JSON.UnmarshalFromString(v, record); err != nil {
				errChan <- err
				return
			}

			recordChan <- record
		}
	}()

	return recordChan, errChan
}

// FIXME: not implement
func (t *Type) Commit(ctx context.Context, record *types.Record) error {
	return errors.New("NotImplement")
}
