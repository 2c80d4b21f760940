package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("Writes To Provided Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("Nil Writer Defaults", func(t *testing.T) {
		if logger := NewLogger(nil); logger == nil {
			t.Error("expected a logger")
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "spotlike.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Info("to file")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "to file") {
		t.Errorf("expected log line in file, got %q", content)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	child := WithLogger(logger, "component", "verify")
	child.Info("scoped")

	if out := buf.String(); !strings.Contains(out, "component") || !strings.Contains(out, "verify") {
		t.Errorf("expected scoped fields in output, got %q", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	SetLogLevel(logger, log.ErrorLevel)
	logger.Info("suppressed")
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("expected info line to be suppressed at error level")
	}

	logger.Error("surfaced")
	if !strings.Contains(buf.String(), "surfaced") {
		t.Error("expected error line to be written")
	}
}

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if first == "" || second == "" {
		t.Fatal("expected non-empty IDs")
	}
	if first == second {
		t.Error("expected unique IDs")
	}
	if len(first) != 36 {
		t.Errorf("expected UUID string length 36, got %d", len(first))
	}
}

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(first) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(first))
	}
	if first == second {
		t.Error("expected unique state tokens")
	}
}
