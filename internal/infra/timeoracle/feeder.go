// timeoracle feeds this node's wall clock into the ordered stream as signed time updates.
//
// This is the only place the wall clock is read on behalf of the replicated state; the
// reading becomes agreed time only once the update is executed in order.
package timeoracle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	"github.com/lloydmeta/timestamping/internal/domain/timeoracle"
	"github.com/lloydmeta/timestamping/internal/domain/tracing"
)

type Feeder struct {
	cron *cron.Cron

	service *timeoracle.ServiceDefinition

	channel submission.Channel

	validatorSk crypto.SecretKey

	tracer tracing.Tracer

	mu sync.Mutex

	getUTC func() time.Time
}

// NewFeeder returns a Feeder that signs updates with validatorSk on the given cron schedule
func NewFeeder(schedule string, service *timeoracle.ServiceDefinition, channel submission.Channel, validatorSk crypto.SecretKey, tracer tracing.Tracer) (*Feeder, error) {
	f := &Feeder{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		service:     service,
		channel:     channel,
		validatorSk: validatorSk,
		tracer:      tracer,
		getUTC: func() time.Time {
			return time.Now().UTC()
		},
	}
	job := cron.NewChain(
		cron.Recover(zeroLogCronLogger{}),
		cron.SkipIfStillRunning(zeroLogCronLogger{}),
	).Then(cron.FuncJob(func() {
		tx := f.tracer.BackgroundTx("time-oracle-feed")
		defer tx.End()
		if err := f.Feed(tx.Context()); err != nil {
			tx.SetResult("error")
			log.Error().Err(err).Msg("Failed to feed time")
		}
	}))
	if _, err := f.cron.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("invalid time oracle schedule [%s]: %w", schedule, err)
	}
	return f, nil
}

// Feed submits one signed reading of the wall clock
func (f *Feeder) Feed(ctx context.Context) error {
	millis := uint64(f.getUTC().UnixNano() / int64(time.Millisecond))
	m, err := timeoracle.NewSignedUpdate(millis, f.validatorSk)
	if err != nil {
		return err
	}
	tx, err := f.service.Decode(m)
	if err != nil {
		return err
	}
	if log.Debug().Enabled() {
		log.Debug().
			Uint64("time", millis).
			Str("tx_hash", tx.Hash().String()).
			Msg("Feeding time")
	}
	return f.channel.Send(ctx, tx)
}

func (f *Feeder) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cron.Start()
}

func (f *Feeder) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	<-f.cron.Stop().Done()
}

type zeroLogCronLogger struct {
}

func (z zeroLogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	if log.Debug().Enabled() {
		log.Debug().Fields(formatTimeValues(keysAndValues)).Msg(msg)
	}
}

func (z zeroLogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	if log.Error().Enabled() {
		log.Error().Err(err).Fields(formatTimeValues(keysAndValues)).Msg(msg)
	}
}

// formatTimeValues formats any time.Time values as RFC3339 *and*
// returns the even-odd idx key-value pair slice as a map
func formatTimeValues(keysAndValues []interface{}) map[string]interface{} {
	formattedArgs := make(map[string]interface{}, len(keysAndValues)/2)
	for idx := 0; idx < len(keysAndValues); idx += 2 {
		var key string
		if s, ok := keysAndValues[idx].(string); ok {
			key = s
		} else {
			key = fmt.Sprint(keysAndValues[idx])
		}
		valueIdx := idx + 1
		if len(keysAndValues) > valueIdx {
			value := keysAndValues[valueIdx]
			if t, ok := value.(time.Time); ok {
				value = t.Format(time.RFC3339)
			}
			formattedArgs[key] = value
		}
	}
	return formattedArgs
}
