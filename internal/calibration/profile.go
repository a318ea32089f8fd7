package calibration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// CurrentProfileVersion is bumped on incompatible changes of the file
	// format.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the profile file created in the home
	// directory when no path is given.
	DefaultProfileFileName = ".fibmatrix_calibration.json"
)

// Profile stores the outcome of a calibration run together with the
// hardware it was measured on.
type Profile struct {
	CPUModel  string `json:"cpu_model"`
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	StrassenThreshold int `json:"strassen_threshold"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationN    uint64    `json:"calibration_n"`
	CalibrationTime string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

// DefaultProfilePath returns ~/.fibmatrix_calibration.json, or the bare
// file name when the home directory is unknown.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// NewProfile returns a profile describing the current machine.
func NewProfile() *Profile {
	return &Profile{
		CPUModel:       fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU()),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       wordSize(),
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

func wordSize() int { return 32 << (^uint(0) >> 63) }

// LoadProfile reads the profile at path (DefaultProfilePath when empty).
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		path = DefaultProfilePath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

// Save writes the profile to path (DefaultProfilePath when empty).
func (p *Profile) Save(path string) error {
	if path == "" {
		path = DefaultProfilePath()
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether the profile was measured by this format version on
// a machine with the same CPU count, architecture and word size, and holds a
// usable threshold.
func (p *Profile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == wordSize() &&
		p.StrassenThreshold > 0
}

// IsStale reports whether the profile is older than maxAge.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *Profile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf("Profile{CPU: %s, Strassen: %d bits, Calibrated: %s}",
		p.CPUModel, p.StrassenThreshold, p.CalibratedAt.Format(time.RFC3339))
}
