package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

func TestParseSeedRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end int64
		wantErr    bool
	}{
		{"1-20", 1, 20, false},
		{"7", 7, 7, false},
		{" 3 - 5 ", 3, 5, false},
		{"-5-2", -5, 2, false},
		{"-4", -4, -4, false},
		{"9-1", 0, 0, true},
		{"a-b", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		start, end, err := parseSeedRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSeedRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (start != tt.start || end != tt.end) {
			t.Errorf("parseSeedRange(%q) = %d, %d, want %d, %d", tt.in, start, end, tt.start, tt.end)
		}
	}
}

func TestGenerateWritesCheckedFile(t *testing.T) {
	dir := t.TempDir()
	mode := worldgen.Underground

	path, st, err := generate(config.DefaultConfig(), 12, &mode, dir, true)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if filepath.Base(path) != "level_12_underground.yaml" {
		t.Errorf("path = %s, want level_12_underground.yaml", filepath.Base(path))
	}
	if st.Segments == 0 {
		t.Error("expected segments in stats")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("level file missing: %v", err)
	}
}
