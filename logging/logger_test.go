package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestCustomFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&CustomFormatter{SystemName: "tasks-service"})

	logger.WithField("taskId", "abc").Warn("Event ID: TASK_FORBIDDEN, Description: denied")

	line := buf.String()
	for _, want := range []string{
		"Event Source: tasks-service",
		"Event Type: WARNING",
		"Message: Event ID: TASK_FORBIDDEN, Description: denied",
		"taskId: abc",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("expected trailing newline")
	}
}

func TestConfigureWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tasks.log")
	logger := logrus.New()

	if err := configure(logger, Options{FilePath: path, Level: "debug", MaxSize: 1}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	logger.Debug("Event ID: TEST, Description: hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "Description: hello") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	if err := configure(logrus.New(), Options{Level: "chatty"}); err == nil {
		t.Error("expected error for unknown level")
	}
}
