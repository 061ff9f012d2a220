// control/doc.go
// Author: momentics <momentics@gmail.com>
//
// Package control provides the runtime control plane of hioload-pipe:
// a dynamic configuration store with TOML file loading and hot-reload
// listeners, a metrics registry for pipeline counters, and debug probes
// registered by drivers.
package control
