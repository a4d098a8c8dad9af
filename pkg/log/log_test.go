package log

import (
	"path/filepath"
	"testing"

	"github.com/gitscope/gitscope/pkg/config"
)

func TestNewLoggerNilConfig(t *testing.T) {
	if _, _, err := NewLogger(nil); err != config.ErrNilConfig {
		t.Errorf("NewLogger(nil) => %v, want %v", err, config.ErrNilConfig)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"json", "logfmt", "text", ""} {
		cfg := config.DefaultConfig()
		cfg.Log.Format = format
		logger, f, err := NewLogger(cfg)
		if err != nil {
			t.Fatalf("NewLogger(format=%q) => %v", format, err)
		}
		if logger == nil {
			t.Fatalf("NewLogger(format=%q) => nil logger", format)
		}
		if f != nil {
			t.Errorf("NewLogger(format=%q) => unexpected log file", format)
		}
	}
}

func TestNewLoggerFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Path = filepath.Join(t.TempDir(), "gitscope.log")
	_, f, err := NewLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if f == nil {
		t.Fatal("NewLogger() => nil log file, want open file")
	}
	defer f.Close() // nolint: errcheck
}
