// Package infra contains technical adapters: data loaders, the zerolog
// logger and the metrics sinks. These packages depend only on the interfaces
// defined in the core packages.
package infra
