// Package layer holds the deployment-layer context and humilis configuration
// that reference resolution and packaging operate against. Both are supplied
// by the deployment engine and are read-only to this module.
package layer

import "log/slog"

// Layer identifies the layer that declared a reference. Basedir anchors every
// relative path in the layer's configuration; LoaderParams feed template
// preprocessing during packaging.
type Layer struct {
	Name         string
	EnvName      string
	EnvStage     string // empty when the environment has no stage
	Basedir      string
	LoaderParams map[string]any
	Logger       *slog.Logger
}

// Log returns the layer's logger, falling back to slog.Default so callers
// never have to nil-check.
func (l *Layer) Log() *slog.Logger {
	if l == nil || l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
