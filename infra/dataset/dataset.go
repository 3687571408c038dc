// Package dataset loads generator fleets and demand profiles from disk.
//
// Fleets are read from CSV files with a header row naming the generator
// fields (min_output, max_output, a, b, c, t_min_up, t_min_down, hot_cost,
// cold_cost, cold_hrs, status) or from YAML lists using the same keys.
// Unknown columns are ignored. Demand profiles are whitespace-separated
// numbers, one value per period.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ucga/core/factory"
	"github.com/kilianp07/ucga/core/model"
)

// ErrEmpty is returned when a file holds no records.
var ErrEmpty = errors.New("no records")

// LoadFleet reads a fleet from a .csv, .yaml or .yml file and validates it.
func LoadFleet(path string) (model.Fleet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fleet model.Fleet
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		fleet, err = ReadFleetCSV(f)
	case ".yaml", ".yml":
		fleet, err = ReadFleetYAML(f)
	default:
		return nil, fmt.Errorf("fleet %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("fleet %s: %w", path, err)
	}
	if err := fleet.Validate(); err != nil {
		return nil, fmt.Errorf("fleet %s: %w", path, err)
	}
	return fleet, nil
}

// ReadFleetCSV decodes one generator per CSV record.
func ReadFleetCSV(r io.Reader) (model.Fleet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var fleet model.Fleet
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(rec))
		for i, v := range rec {
			row[header[i]] = strings.TrimSpace(v)
		}
		var g model.Generator
		if err := factory.Decode(row, &g); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		fleet = append(fleet, g)
	}
	if len(fleet) == 0 {
		return nil, ErrEmpty
	}
	return fleet, nil
}

// ReadFleetYAML decodes a YAML sequence of generators.
func ReadFleetYAML(r io.Reader) (model.Fleet, error) {
	var fleet model.Fleet
	if err := yaml.NewDecoder(r).Decode(&fleet); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	if len(fleet) == 0 {
		return nil, ErrEmpty
	}
	return fleet, nil
}

// LoadDemand reads and validates a demand profile.
func LoadDemand(path string) (model.Demand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := ReadDemand(f)
	if err != nil {
		return nil, fmt.Errorf("demand %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("demand %s: %w", path, err)
	}
	return d, nil
}

// ReadDemand parses whitespace-separated values. Commas are accepted as
// separators too.
func ReadDemand(r io.Reader) (model.Demand, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fields := strings.FieldsFunc(string(raw), func(c rune) bool {
		return c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
	})
	if len(fields) == 0 {
		return nil, ErrEmpty
	}
	d := make(model.Demand, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i, err)
		}
		d[i] = v
	}
	return d, nil
}
