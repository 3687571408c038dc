package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/ucga/core/factory"
	coremetrics "github.com/kilianp07/ucga/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.Sink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		// The endpoint address lives in metrics.prometheus_addr; the sink only
		// owns the collectors.
		s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, err
		}
		return s, nil
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c, factoryOptions()...), nil
	})

	_ = coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.Sink, error) {
		var c MQTTConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s, err := NewMQTTSink(c, factoryOptions()...)
		if err != nil {
			return nil, err
		}
		return s, nil
	})

	_ = coremetrics.RegisterSink("journal", func(conf map[string]any) (coremetrics.Sink, error) {
		var c JournalConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s, err := NewJournalSink(c)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
