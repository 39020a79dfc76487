package tracing

import "context"

// Transaction is a traced unit of background work, such as committing a block
type Transaction interface {
	Context() context.Context
	// SetResult records how the unit of work ended, e.g. "empty" or "committed"
	SetResult(result string)
	End()
}

type Tracer interface {
	BackgroundTx(name string) Transaction
}
