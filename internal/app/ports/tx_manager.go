package ports

import "context"

// TxManager runs fn so that every store write inside it lands together.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
