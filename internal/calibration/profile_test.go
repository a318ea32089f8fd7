package calibration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestProfileSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "p.json")
	p := NewProfile()
	p.StrassenThreshold = 2048
	p.CalibrationN = 1000
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if loaded.StrassenThreshold != 2048 || loaded.CalibrationN != 1000 || loaded.CPUModel != p.CPUModel {
		t.Errorf("loaded %+v, saved %+v", loaded, p)
	}
	if !loaded.CalibratedAt.Equal(p.CalibratedAt) {
		t.Errorf("CalibratedAt = %v, want %v", loaded.CalibratedAt, p.CalibratedAt)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := LoadProfile(filepath.Join(dir, "missing.json")); err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("missing file: err = %v", err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(corrupt); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("corrupt file: err = %v", err)
	}
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()

	valid := func() *Profile {
		p := NewProfile()
		p.StrassenThreshold = 512
		return p
	}
	tests := []struct {
		name   string
		mutate func(*Profile) *Profile
		want   bool
	}{
		{"valid", func(p *Profile) *Profile { return p }, true},
		{"nil", func(*Profile) *Profile { return nil }, false},
		{"other version", func(p *Profile) *Profile { p.ProfileVersion++; return p }, false},
		{"other cpu count", func(p *Profile) *Profile { p.NumCPU++; return p }, false},
		{"other arch", func(p *Profile) *Profile { p.GOARCH = "nonexistent"; return p }, false},
		{"no threshold", func(p *Profile) *Profile { p.StrassenThreshold = 0; return p }, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.mutate(valid()).IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfileIsStale(t *testing.T) {
	t.Parallel()

	p := NewProfile()
	if p.IsStale(time.Hour) {
		t.Error("fresh profile should not be stale")
	}
	p.CalibratedAt = time.Now().Add(-2 * time.Hour)
	if !p.IsStale(time.Hour) {
		t.Error("two-hour-old profile should be stale after one hour")
	}
	if !(*Profile)(nil).IsStale(time.Hour) {
		t.Error("nil profile should be stale")
	}
	if (*Profile)(nil).String() != "<nil profile>" {
		t.Error("nil profile String()")
	}
}

func TestDefaultProfilePath(t *testing.T) {
	t.Parallel()
	if got := DefaultProfilePath(); filepath.Base(got) != DefaultProfileFileName {
		t.Errorf("DefaultProfilePath() = %q", got)
	}
}
