package tracing

import "context"

// NoopTracer hands out Transactions that record nothing
type NoopTracer struct{}

func (n NoopTracer) BackgroundTx(name string) Transaction {
	return noopTx{}
}

type noopTx struct{}

func (n noopTx) Context() context.Context {
	return context.Background()
}

func (n noopTx) SetResult(string) {}

func (n noopTx) End() {}
