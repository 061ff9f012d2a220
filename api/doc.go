// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the public contracts of hioload-pipe: the SPSC ring
// surface, transfer adapters with asynchronous completions, cursor metadata
// exchange between pipeline stages, registered memory regions, and the
// cooperative scheduler hook used by the pipeline orchestrator.
//
// The package contains no implementation logic. Concrete implementations
// live in core/ring, core/pipe, adapters, pool, transport and fake, each of
// which carries compile-time assertions against these interfaces.
package api
