package database

import (
	"github.com/goforj/database/dbcore"
	"github.com/spf13/afero"
)

type options struct {
	connector dbcore.Connector
	logger    *Logger
	observer  Observer
	fs        afero.Fs
	pick      func(n int) int
}

// Option mutates the construction options of a Database.
type Option func(options) options

// WithConnector overrides the connector chosen from Config.Driver.
func WithConnector(c dbcore.Connector) Option {
	return func(o options) options {
		o.connector = c
		return o
	}
}

// WithLogger sets the logger used for query and failure logging.
func WithLogger(l *Logger) Option {
	return func(o options) options {
		o.logger = l
		return o
	}
}

// WithObserver attaches an observer to receive operation events.
func WithObserver(obs Observer) Option {
	return func(o options) options {
		o.observer = obs
		return o
	}
}

// WithFs sets the filesystem scripts are read from. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o options) options {
		o.fs = fs
		return o
	}
}

// WithRandom replaces the endpoint picker used for split configurations.
// pick must return a value in [0, n).
func WithRandom(pick func(n int) int) Option {
	return func(o options) options {
		o.pick = pick
		return o
	}
}
