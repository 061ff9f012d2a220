// File: core/pipe/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package pipe implements the pipeline stage engine: a chain of stages,
// each copying bytes from its source window to its destination window
// through a transfer adapter and exchanging head/tail cursors with its
// neighbors through metadata adapters.
//
// Cursors held by a stage are committed-only: srcHead/srcTail/dstHead/
// dstTail never include in-flight transfers. In-flight work lives in a
// bounded FIFO of transfer descriptors; completions may arrive out of
// order, but cursor commits are released strictly in submission order
// (keyed by the descriptor's starting source cursor), so published
// progress is always prefix-closed.
//
// The orchestrator is cooperative and single-threaded per pipeline:
// Progress drives one pass over all stages, yielding to the scheduler
// between stages. Multiple pipelines may run on separate goroutines.
package pipe
