// Package service orchestrates the core components of the matching
// engine: the order book, the order pool, the arrival sequencer, and
// observability.
//
// It provides the single write entry point for placing and cancelling
// orders plus decimal-facing market-data queries, decoupled from any
// presentation layer.
package service
