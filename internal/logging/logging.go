// Package logging builds the logrus logger. Stdout belongs to the viewer
// while it runs, so log lines only ever go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hisoka/internal/config"
)

// DefaultPath returns $XDG_STATE_HOME/hisoka/hisoka.log, creating the
// directory if needed.
func DefaultPath() (string, error) {
	return xdg.StateFile(filepath.Join("hisoka", "hisoka.log"))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger configured from cfg and the closer for its output.
// The caller closes it after the terminal is restored.
func New(cfg config.LogConfig) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	if cfg.File == config.LogDisabled {
		log.SetOutput(io.Discard)
		return log, nopCloser{}, nil
	}

	path := cfg.File
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return nil, nil, fmt.Errorf("log path: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	log.SetOutput(f)
	return log, f, nil
}

// Component returns an entry tagged with the component name.
func Component(log logrus.FieldLogger, name string) *logrus.Entry {
	return log.WithField("component", name)
}
