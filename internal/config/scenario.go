package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"supplycraft/internal/game"
	"supplycraft/internal/negotiation"
	"supplycraft/internal/sim"
)

// LoadParams reads the economic parameters from a YAML file. Fields
// absent from the file keep their defaults. An empty or missing path
// yields the defaults.
func LoadParams(path string) (sim.Params, error) {
	p := sim.DefaultParams()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return sim.DefaultParams(), fmt.Errorf("parse params %s: %w", path, err)
	}
	return p, nil
}

// LoadNegotiation reads the negotiation constraints from a YAML file.
func LoadNegotiation(path string) (negotiation.Config, error) {
	n := negotiation.DefaultConfig()
	if path == "" {
		return n, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return n, nil
		}
		return n, fmt.Errorf("read negotiation config: %w", err)
	}
	if err := yaml.Unmarshal(data, &n); err != nil {
		return negotiation.DefaultConfig(), fmt.Errorf("parse negotiation config %s: %w", path, err)
	}
	return n, nil
}

// LoadHistory reads the seed demand history from a single-column CSV.
// Header rows and blank lines are skipped. A file with no parseable
// rows falls back to the built-in history.
func LoadHistory(path string) ([]int, error) {
	if path == "" {
		return game.DefaultHistory(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return game.DefaultHistory(), nil
		}
		return game.DefaultHistory(), fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var values []int
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		if len(row) == 0 {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			// Header or junk row.
			continue
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return game.DefaultHistory(), fmt.Errorf("no usable rows in %s", path)
	}
	return values, nil
}
