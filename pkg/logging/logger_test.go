package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level to be Info, got %s", cfg.Level)
	}

	if cfg.Format != FormatJSON {
		t.Errorf("Expected default format to be json, got %s", cfg.Format)
	}
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name       string
		level      LogLevel
		format     Format
		write      func(zerolog.Logger)
		contains   string
		suppressed bool
	}{
		{
			name:     "info_level",
			level:    LevelInfo,
			format:   FormatJSON,
			write:    func(l zerolog.Logger) { l.Info().Msg("test info message") },
			contains: `"message":"test info message"`,
		},
		{
			name:     "debug_level",
			level:    LevelDebug,
			format:   FormatJSON,
			write:    func(l zerolog.Logger) { l.Debug().Msg("test debug message") },
			contains: "test debug message",
		},
		{
			name:       "debug_suppressed_at_warn",
			level:      LevelWarn,
			format:     FormatJSON,
			write:      func(l zerolog.Logger) { l.Debug().Msg("hidden") },
			contains:   "hidden",
			suppressed: true,
		},
		{
			name:     "console_format",
			level:    LevelInfo,
			format:   FormatConsole,
			write:    func(l zerolog.Logger) { l.Info().Msg("console message") },
			contains: "console message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := Setup(Config{Level: tt.level, Format: tt.format, Output: buf})
			defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

			tt.write(logger)

			got := strings.Contains(buf.String(), tt.contains)
			if tt.suppressed && got {
				t.Errorf("Expected %q to be suppressed, got %q", tt.contains, buf.String())
			}
			if !tt.suppressed && !got {
				t.Errorf("Expected output to contain %q, got %q", tt.contains, buf.String())
			}
			if tt.format == FormatConsole && strings.HasPrefix(buf.String(), "{") {
				t.Error("Console format should not emit JSON")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Level: "info", Format: "json"}, false},
		{Config{Level: "WARN", Format: "Console"}, false},
		{Config{}, false},
		{Config{Level: "verbose"}, true},
		{Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.cfg, err, tt.wantErr)
		}
	}
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("test-component")
	logger.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"test-component"`) {
		t.Errorf("Expected component field, got %q", buf.String())
	}
}
