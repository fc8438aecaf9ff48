package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/breakwatch/breakwatch/pkg/logger"
)

func TestCreateLogger(t *testing.T) {
	log := logger.CreateLogger("", "info")
	if log == nil {
		t.Fatal("expected logger to be created")
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level      string
		wantDebug  bool
		wantInfo   bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true},
		{level: "info", wantDebug: false, wantInfo: true},
		{level: "error", wantDebug: false, wantInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.CreateLoggerWithOutput(tt.level, &buf)

			log.Debug("debug message")
			log.Info("info message")
			log.Error("error message")

			output := buf.String()
			if got := strings.Contains(output, "debug message"); got != tt.wantDebug {
				t.Errorf("debug visibility = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(output, "info message"); got != tt.wantInfo {
				t.Errorf("info visibility = %v, want %v", got, tt.wantInfo)
			}
			if !strings.Contains(output, "error message") {
				t.Error("expected error message at every level")
			}
		})
	}
}

func TestLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("nonsense", &buf)

	log.Debug("hidden")
	log.Info("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("expected debug suppressed at default level")
	}
	if !strings.Contains(output, "shown") {
		t.Error("expected info visible at default level")
	}
}

func TestLogger_WithQuery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	queryLog := log.WithQuery("(min-width: 600px)")
	queryLog.Info("subscription added")

	output := buf.String()
	if !strings.Contains(output, "(min-width: 600px)") {
		t.Errorf("expected query prefix in output: %s", output)
	}
	if !strings.Contains(output, "subscription added") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Info("change dispatched",
		logger.WithField("alias", "sm"),
		logger.WithField("matches", true))

	output := buf.String()
	if !strings.Contains(output, "alias=sm") {
		t.Errorf("expected alias field in output: %s", output)
	}
	if !strings.Contains(output, "matches=true") {
		t.Errorf("expected matches field in output: %s", output)
	}
}
