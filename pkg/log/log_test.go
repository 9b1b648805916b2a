package log

import (
	"bytes"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() { SetGlobalDebug(false) })
	return buf
}

func TestLevelsAndPrefix(t *testing.T) {
	buf := captureOutput(t)
	l := ForService("session-test")

	tests := []struct {
		level string
		log   func(string, ...any)
	}{
		{LevelInfo, l.Infof},
		{LevelWarn, l.Warnf},
		{LevelError, l.Errorf},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log("fetched %d results", 3)
		out := buf.String()
		if !strings.Contains(out, tt.level+" [session-test>] fetched 3 results") {
			t.Errorf("%s: unexpected output %q", tt.level, out)
		}
	}
}

func TestDebugPerService(t *testing.T) {
	buf := captureOutput(t)
	const name = "facets-debug-test"
	DisableDebugFor(name)
	l := ForService(name)

	l.Debugf("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("debug output appeared while disabled")
	}

	EnableDebugFor(name)
	l.Debugf("visible")
	if !strings.Contains(buf.String(), LevelDebug+" ["+name+">] visible") {
		t.Fatalf("expected debug output after EnableDebugFor, got %q", buf.String())
	}

	if DebugEnabledFor("some-other-service") {
		t.Error("per-service debug must not leak to other services")
	}
}

func TestDebugGlobal(t *testing.T) {
	buf := captureOutput(t)
	l := ForService("global-debug-test")

	SetGlobalDebug(true)
	if !GlobalDebug() {
		t.Fatal("GlobalDebug() should report true")
	}
	l.Debugf("everywhere")
	if !strings.Contains(buf.String(), "everywhere") {
		t.Fatalf("expected debug output with global debug, got %q", buf.String())
	}
}

func TestForServiceIsMemoized(t *testing.T) {
	if ForService("same") != ForService("same") {
		t.Error("ForService should return the same logger for the same name")
	}
	if ForService("").Name() != "unknown" {
		t.Error("empty names map to the unknown logger")
	}
}
