package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/ucga/core/metrics"
	"github.com/kilianp07/ucga/internal/eventbus"
)

// StartEventCollector subscribes to the bus and forwards generation events to
// sink until the context is canceled or the bus is closed. The returned
// channel is closed once the collector has stopped.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[coremetrics.GenerationEvent], sink coremetrics.Sink, opts ...Option) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := buildOptions("event-collector", opts).log
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordGeneration(ev); err != nil {
					log.Warnf("record generation %d: %v", ev.Generation, err)
				}
			}
		}
	}()
	return done
}
