package tracing

import (
	"context"

	"go.elastic.co/apm"

	"github.com/lloydmeta/timestamping/internal/domain/tracing"
)

const backgroundTxType = "consensus"

// NewTracer returns a thin wrapper around the default APM tracer
func NewTracer() tracing.Tracer {
	return &tracerImpl{getApmTracer: func() *apm.Tracer {
		return apm.DefaultTracer
	}}
}

type transactionImpl struct {
	apmTx *apm.Transaction
}

func (t *transactionImpl) Context() context.Context {
	return apm.ContextWithTransaction(context.Background(), t.apmTx)
}

func (t *transactionImpl) SetResult(result string) {
	t.apmTx.Result = result
}

func (t *transactionImpl) End() {
	t.apmTx.End()
}

type tracerImpl struct {
	getApmTracer func() *apm.Tracer
}

func (t *tracerImpl) BackgroundTx(name string) tracing.Transaction {
	tx := t.getApmTracer().StartTransaction(name, backgroundTxType)
	return &transactionImpl{apmTx: tx}
}
