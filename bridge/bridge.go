package bridge

import (
	"github.com/openbukkitutils/eventive/bridge/mock"
	"github.com/openbukkitutils/eventive/bridge/redis"
)

func WithRedis(optfs ...redis.OptFunc) (Interface, error) {
	return redis.New(optfs...)
}

func WithMock() (Interface, error) {
	return mock.New()
}
