package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("loading node 3: %w", Corruptionf("self index %d != %d", 7, 3))

	if !errors.Is(err, ErrCorruption) {
		t.Errorf("expected corruption error to match ErrCorruption")
	}
	if errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("corruption error must not match ErrSchemaMismatch")
	}

	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCCorruption {
		t.Fatalf("errors.As failed: %v", err)
	}
	if !strings.Contains(e.Error(), "Corruption") {
		t.Errorf("unexpected message %q", e.Error())
	}
}

func TestWrapCorruption(t *testing.T) {
	cause := errors.New("short read")
	err := WrapCorruption(cause, "field %s", "quantity")
	if !errors.Is(err, cause) || !errors.Is(err, ErrCorruption) {
		t.Errorf("wrapped error lost its cause or code: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Errorf("expected error for invalid level")
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf strings.Builder
	l := NewLogger("object", &buf)
	l.SetLevel(logger.INFO)

	l.Debugf("hidden %d", 1)
	l.Infof("field %s", "quantity")
	l.Errorf("broken")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at level INFO:\n%s", out)
	}
	for _, want := range []string{"INFO  | object   | field quantity", "ERROR | object   | broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	c.Format = "xml"
	if err := c.Validate(); err == nil {
		t.Errorf("expected error for format xml")
	}

	c = DefaultConfig()
	c.MaxDepth = 0
	if err := c.Validate(); err == nil {
		t.Errorf("expected error for max depth 0")
	}

	if s := DefaultConfig().String(); !strings.Contains(s, "Max Depth") {
		t.Errorf("String() misses the decoding section:\n%s", s)
	}
}
