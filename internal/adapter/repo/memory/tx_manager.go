package memory

import (
	"context"
)

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	pets, order, crops := t.store.pets, t.store.order, t.store.crops
	if err := fn(context.WithValue(ctx, txKey, true)); err != nil {
		t.store.pets, t.store.order, t.store.crops = pets, order, crops
		return err
	}
	return nil
}
