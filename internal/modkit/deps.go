// Package modkit provides module wiring and core deps
package modkit

import (
	"surveylens/internal/platform/config"
	"surveylens/internal/platform/fetch"
	"surveylens/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	Fetch *fetch.Fetcher
}

// Fetcher returns the shared fetcher, building one from CORE_FETCH_* when unset
func (d Deps) Fetcher() *fetch.Fetcher {
	if d.Fetch != nil {
		return d.Fetch
	}
	return fetch.NewFromConfig(fetch.FromConfig(d.Cfg))
}
