// File: bootstrap/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package bootstrap implements the out-of-band TCP channel peers use to
// exchange connection descriptors and registered-region exports before
// one-sided traffic starts. The channel carries length-prefixed opaque
// blobs only; it imposes no schema beyond the region descriptor handshake.
package bootstrap
