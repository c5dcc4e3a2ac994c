package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "firmap.log")

	closer, err := Setup("debug", file)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer logrus.SetOutput(os.Stderr)

	logrus.WithField("module", "test").Debug("hello from the test")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello from the test") || !strings.Contains(string(data), "module=test") {
		t.Errorf("unexpected log content %q", data)
	}
}

func TestSetupRejectsLevel(t *testing.T) {
	if _, err := Setup("chatty", filepath.Join(t.TempDir(), "x.log")); err == nil {
		t.Error("expected an invalid level error")
	}
}
