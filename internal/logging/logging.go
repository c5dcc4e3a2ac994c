package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Dir returns the directory log files go to by default.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to find user config dir: %v\n", err)
		dir = "."
	}
	return filepath.Join(dir, "firmap")
}

// Setup routes logrus into a rotating file, since the terminal belongs to
// the UI. An empty file uses firmap.log under Dir. The returned closer
// flushes the file.
func Setup(level, file string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	if file == "" {
		file = filepath.Join(Dir(), "firmap.log")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    16, // MB
		MaxBackups: 2,
		MaxAge:     14,
	}
	if lvl >= logrus.DebugLevel {
		w.MaxSize = 128
	}

	logrus.SetOutput(w)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return w, nil
}
