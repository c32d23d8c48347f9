// Package signal loads declarative signal grids: named samples with a mass grid,
// optional lifetime and dark-mass axes, and a file-path template.
package signal

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Point identifies one physics configuration of a signal.
type Point struct {
	Mass     float64
	Lifetime float64
	DarkMass float64

	HasLifetime bool
	HasDarkMass bool
}

// Label renders the point as a histogram-store key: the mass alone for
// mass-only signals, otherwise "<mass>_ctau-<ctau>_mDark-<mdark>".
func (p Point) Label() string {
	s := FormatCoord(p.Mass)
	if p.HasLifetime {
		s += "_ctau-" + FormatCoord(p.Lifetime)
	}
	if p.HasDarkMass {
		s += "_mDark-" + FormatCoord(p.DarkMass)
	}
	return s
}

// String is used in log messages and wrapped errors.
func (p Point) String() string {
	s := "mass=" + FormatCoord(p.Mass)
	if p.HasLifetime {
		s += " ctau=" + FormatCoord(p.Lifetime)
	}
	if p.HasDarkMass {
		s += " mdark=" + FormatCoord(p.DarkMass)
	}
	return s
}

// FormatCoord formats a grid coordinate without trailing zeros (100, 0.5).
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Signal describes one sample family.
type Signal struct {
	Name       string    `yaml:"name"`
	Legend     string    `yaml:"legend,omitempty"`
	XLabel     string    `yaml:"xlabel,omitempty"`
	Channel    string    `yaml:"channel,omitempty"`
	Template   string    `yaml:"template"`
	Masses     []float64 `yaml:"masses"`
	Lifetimes  []float64 `yaml:"lifetimes,omitempty"`
	DarkMasses []float64 `yaml:"dark_masses,omitempty"`
}

// Points returns the grid in traversal order: lifetime outer, dark mass middle,
// mass inner.
func (s *Signal) Points() []Point {
	lifetimes := s.Lifetimes
	if len(lifetimes) == 0 {
		lifetimes = []float64{0}
	}
	darkMasses := s.DarkMasses
	if len(darkMasses) == 0 {
		darkMasses = []float64{0}
	}
	points := make([]Point, 0, len(lifetimes)*len(darkMasses)*len(s.Masses))
	for _, ctau := range lifetimes {
		for _, mdark := range darkMasses {
			for _, mass := range s.Masses {
				points = append(points, Point{
					Mass:        mass,
					Lifetime:    ctau,
					DarkMass:    mdark,
					HasLifetime: len(s.Lifetimes) > 0,
					HasDarkMass: len(s.DarkMasses) > 0,
				})
			}
		}
	}
	return points
}

// Path renders the file template for a point. "{}" is accepted as an alias
// for "{mass}".
func (s *Signal) Path(p Point) string {
	r := strings.NewReplacer(
		"{mass}", FormatCoord(p.Mass),
		"{}", FormatCoord(p.Mass),
		"{ctau}", FormatCoord(p.Lifetime),
		"{mdark}", FormatCoord(p.DarkMass),
		"{channel}", s.Channel,
	)
	return r.Replace(s.Template)
}

// Coordinates returns the active coordinate column names: mass, then ctau and
// mdark when the signal has those axes.
func (s *Signal) Coordinates() []string {
	cols := []string{"mass"}
	if len(s.Lifetimes) > 0 {
		cols = append(cols, "ctau")
	}
	if len(s.DarkMasses) > 0 {
		cols = append(cols, "mdark")
	}
	return cols
}

// Validate checks the template, axes and coordinate values.
func (s *Signal) Validate() error {
	prefix := fmt.Sprintf("signal %q", s.Name)
	if s.Name == "" {
		return fmt.Errorf("signal name is required")
	}
	if s.Template == "" {
		return fmt.Errorf("%s: template is required", prefix)
	}
	if len(s.Masses) == 0 {
		return fmt.Errorf("%s: at least one mass is required", prefix)
	}
	if !strings.Contains(s.Template, "{mass}") && !strings.Contains(s.Template, "{}") {
		return fmt.Errorf("%s: template must contain {mass}", prefix)
	}
	if len(s.Lifetimes) > 0 && !strings.Contains(s.Template, "{ctau}") {
		return fmt.Errorf("%s: lifetimes given but template has no {ctau}", prefix)
	}
	if len(s.DarkMasses) > 0 && !strings.Contains(s.Template, "{mdark}") {
		return fmt.Errorf("%s: dark_masses given but template has no {mdark}", prefix)
	}
	if strings.Contains(s.Template, "{channel}") && s.Channel == "" {
		return fmt.Errorf("%s: template uses {channel} but channel is empty", prefix)
	}
	for _, axis := range []struct {
		name   string
		values []float64
	}{
		{"masses", s.Masses},
		{"lifetimes", s.Lifetimes},
		{"dark_masses", s.DarkMasses},
	} {
		if err := validateAxis(prefix+"."+axis.name, axis.values); err != nil {
			return err
		}
	}
	return nil
}

func validateAxis(name string, values []float64) error {
	seen := make(map[float64]bool, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s: values must be finite and non-negative, got %v", name, v)
		}
		if seen[v] {
			return fmt.Errorf("%s: duplicate value %v", name, v)
		}
		seen[v] = true
	}
	return nil
}

// File is the top-level signals document.
type File struct {
	Signals []Signal    `yaml:"signals"`
	Expand  []Expansion `yaml:"expand,omitempty"`
}

// Expansion fans out into one signal per channel × dark mass × lifetime.
// Name, Legend and XLabel may use {channel}, {mdark} and {ctau}.
type Expansion struct {
	Name       string    `yaml:"name"`
	Legend     string    `yaml:"legend,omitempty"`
	XLabel     string    `yaml:"xlabel,omitempty"`
	Channels   []string  `yaml:"channels,omitempty"`
	Template   string    `yaml:"template"`
	Masses     []float64 `yaml:"masses"`
	Lifetimes  []float64 `yaml:"lifetimes,omitempty"`
	DarkMasses []float64 `yaml:"dark_masses,omitempty"`
}

// Signals returns one signal per channel × dark mass × lifetime, channel outer.
func (e *Expansion) Signals() []Signal {
	channels := e.Channels
	if len(channels) == 0 {
		channels = []string{""}
	}
	darkMasses := axisOrSingle(e.DarkMasses)
	lifetimes := axisOrSingle(e.Lifetimes)

	var out []Signal
	for _, ch := range channels {
		for _, mdark := range darkMasses {
			for _, ctau := range lifetimes {
				r := strings.NewReplacer(
					"{channel}", ch,
					"{mdark}", FormatCoord(mdark),
					"{ctau}", FormatCoord(ctau),
				)
				sig := Signal{
					Name:     r.Replace(e.Name),
					Legend:   r.Replace(e.Legend),
					XLabel:   r.Replace(e.XLabel),
					Channel:  ch,
					Template: e.Template,
					Masses:   append([]float64(nil), e.Masses...),
				}
				if len(e.Lifetimes) > 0 {
					sig.Lifetimes = []float64{ctau}
				}
				if len(e.DarkMasses) > 0 {
					sig.DarkMasses = []float64{mdark}
				}
				out = append(out, sig)
			}
		}
	}
	return out
}

func axisOrSingle(v []float64) []float64 {
	if len(v) == 0 {
		return []float64{0}
	}
	return v
}

// LoadFile reads, expands and validates a signals YAML file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadFile(path string) ([]Signal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signals file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a signals document.
func Parse(data []byte) ([]Signal, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing signals file: %w", err)
	}

	signals := append([]Signal(nil), f.Signals...)
	for i := range f.Expand {
		signals = append(signals, f.Expand[i].Signals()...)
	}
	if len(signals) == 0 {
		return nil, fmt.Errorf("signals file defines no signals")
	}

	names := make(map[string]bool, len(signals))
	for i := range signals {
		if err := signals[i].Validate(); err != nil {
			return nil, err
		}
		if names[signals[i].Name] {
			return nil, fmt.Errorf("duplicate signal name %q", signals[i].Name)
		}
		names[signals[i].Name] = true
	}
	return signals, nil
}
