// File: pool/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package pool manages registered memory regions for one-sided transfers.
//
// On Linux, regions are mapped with anonymous mmap (2 MiB hugepages when
// available, normal pages otherwise) and optionally locked; elsewhere they
// fall back to the Go heap. The pool enforces an inventory budget: a
// bounded region count and byte total, with ErrResourceExhausted once
// either is spent. Regions must outlive every stage and adapter that
// references them; the pipeline enforces this through ownership of its
// stages, which hold their region handles.
package pool
