// Package metrics defines the events emitted while the genetic search runs
// and the sinks that record them. Sinks like PromSink, InfluxSink and
// MQTTSink live in infra/metrics and register themselves in the factory so
// they can be selected from configuration. Several configured sinks are
// combined with NewMultiSink automatically.
package metrics
