// Package config loads imdcalc run plans from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-imd/imd"
)

var ErrInvalidBand = errors.New("config: band must be LOW:HIGH")

// Band is a closed frequency interval.
type Band struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Contains reports whether f lies in the band.
func (b Band) Contains(f float64) bool {
	return f >= b.Low && f <= b.High
}

func (b Band) String() string {
	return strconv.FormatFloat(b.Low, 'g', -1, 64) + ":" + strconv.FormatFloat(b.High, 'g', -1, 64)
}

// Plan describes one enumeration run. Frequencies are kept as text so that
// non-numeric entries are reported the same way as on the command line.
type Plan struct {
	Order       int      `yaml:"order"`
	Frequencies []string `yaml:"frequencies"`
	Workers     int      `yaml:"workers"`
	Band        *Band    `yaml:"band"`
	SQLite      string   `yaml:"sqlite"`
	List        bool     `yaml:"list"`
}

// Load reads and parses a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a YAML plan. Unknown keys are rejected.
func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("config: decoding plan: %w", err)
	}

	if p.Band != nil && p.Band.High < p.Band.Low {
		p.Band.Low, p.Band.High = p.Band.High, p.Band.Low
	}

	return &p, nil
}

// Tones parses the plan's frequencies.
func (p *Plan) Tones() ([]float64, error) {
	return imd.ParseFrequencies(p.Frequencies)
}

// Validate checks the order and frequencies without running anything.
func (p *Plan) Validate() error {
	if err := imd.Validate(p.Order); err != nil {
		return err
	}

	_, err := p.Tones()

	return err
}

// ParseBand parses "LOW:HIGH". The bounds may be given in either order.
func ParseBand(s string) (Band, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return Band{}, fmt.Errorf("%w: %q", ErrInvalidBand, s)
	}

	low, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Band{}, fmt.Errorf("%w: %q", ErrInvalidBand, s)
	}

	high, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return Band{}, fmt.Errorf("%w: %q", ErrInvalidBand, s)
	}

	if high < low {
		low, high = high, low
	}

	return Band{Low: low, High: high}, nil
}
