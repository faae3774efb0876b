package repositories

import "context"

// TxFn is the unit of work run by ExecTx
type TxFn func(ctx context.Context) error

// TransactionManager groups multi-row writes such as screen reordering,
// cascading deletes and comment removal so they commit or fail together.
type TransactionManager interface {
	// ExecTx runs fn in a transaction. Nested calls join the outer one.
	ExecTx(ctx context.Context, fn TxFn) error
}
