// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info")
	l.Info("net checked", "net", "CLK", "violations", 0)

	out := buf.String()
	if !strings.Contains(out, `"msg":"net checked"`) {
		t.Errorf("expected JSON record with msg field, got %q", out)
	}
	if !strings.Contains(out, `"net":"CLK"`) {
		t.Errorf("expected net attribute in record, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")
	l.Info("should be filtered")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info record should have been filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record should have appeared")
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info").With("net", "VDD")
	l.Info("processing")

	if !strings.Contains(buf.String(), `"net":"VDD"`) {
		t.Errorf("expected inherited net attribute, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("ignored")
	l.Error("also ignored")
}
