// File: adapters/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package adapters provides the concrete transfer adapters and metadata
// endpoints that bridge the api contracts to actual byte movement:
// shared-memory copies, remote one-sided write/read, two-sided messaging,
// cursor-word metadata over any adapter, and ring taps that bind pipeline
// edges to local SPSC rings.
package adapters
