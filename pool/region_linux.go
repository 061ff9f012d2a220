// File: pool/region_linux.go
//go:build linux

//
// Package pool: Linux region mapping via anonymous mmap.
//
// Regions try 2 MiB hugepages first and fall back to normal pages, then
// to the Go heap if mmap is unavailable entirely.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"golang.org/x/sys/unix"
)

const hugePageSize = 2 << 20

// mapRegion maps size bytes; mapped==false means heap fallback.
func mapRegion(size int, lock bool) ([]byte, bool) {
	prot := unix.PROT_READ | unix.PROT_WRITE

	if size >= hugePageSize {
		length := ((size + hugePageSize - 1) / hugePageSize) * hugePageSize
		data, err := unix.Mmap(-1, 0, length, prot,
			unix.MAP_ANONYMOUS|unix.MAP_PRIVATE|unix.MAP_HUGETLB)
		if err == nil {
			if lock {
				_ = unix.Mlock(data)
			}
			return data[:size], true
		}
	}

	data, err := unix.Mmap(-1, 0, size, prot,
		unix.MAP_ANONYMOUS|unix.MAP_PRIVATE)
	if err != nil {
		return make([]byte, size), false
	}
	if lock {
		_ = unix.Mlock(data)
	}
	return data, true
}

// unmapRegion returns mapped memory to the OS.
func unmapRegion(data []byte) {
	_ = unix.Munmap(data[:cap(data)])
}
