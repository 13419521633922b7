// Package mock is a mock bridge backend for unit test
package mock

import (
	"context"
	"sync"

	"github.com/openbukkitutils/eventive/types"
)

type Type struct {
	sync.Mutex
	name2queue map[types.Name]chan *types.Record
}

func New() (*Type, error) {
	return &Type{
		name2queue: map[types.Name]chan *types.Record{},
	}, nil
}

func (t *Type) Name() string {
	return "mock"
}

func (t *Type) Put(ctx context.Context, record *types.Record) error {
	t.Lock()
	ch, ok := t.name2queue[record.Name]
	if !ok {
		ch = make(chan *types.Record, 1000)
		t.name2queue[record.Name] = ch
	}
	t.Unlock()

	ch <- record
	return nil
}

func (t *Type) Get(ctx context.Context, name types.Name) (recordChan <-chan *types.Record, errChan <-chan error) {
	t.Lock()
	ch, ok := t.name2queue[name]
	if !ok {
		ch = make(chan *types.Record, 1000)
		t.name2queue[name] = ch
	}
	t.Unlock()

	// closed so consumers that stop reading records never park on it
	errCh := make(chan error)
	close(errCh)
	return ch, errCh
}

func (t *Type) Commit(ctx context.Context, record *types.Record) error {
	return nil
}
