package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuild_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "WARN", "text")

	l.Info("hidden")
	l.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("INFO message logged at WARN level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("WARN message missing")
	}
}

func TestBuild_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "loud", "text")

	l.Debug("hidden")
	l.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("DEBUG message logged at default level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("INFO message missing")
	}
}

func TestBuild_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "INFO", "json")

	l.Info("hello", "k", "v")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	l := WithComponent("dispatch")
	if l == nil {
		t.Fatal("WithComponent() = nil")
	}
}
