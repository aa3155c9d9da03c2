// Package teamrates loads the team cost configuration used to derive a
// billable rate when the answers do not name one.
package teamrates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Personas.
const (
	Freelancer = "freelancer"
	Agency     = "agency"
	InHouse    = "in_house"
)

// Role is one member profile of the delivery team.
type Role struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	HourlyCost float64 `yaml:"hourly_cost" json:"hourly_cost"`
	Allocation float64 `yaml:"allocation" json:"allocation"`
}

// Persona overrides the rate or margin for one kind of seller.
type Persona struct {
	HourlyRate float64  `yaml:"hourly_rate,omitempty" json:"hourly_rate,omitempty"`
	Margin     *float64 `yaml:"margin,omitempty" json:"margin,omitempty"`
}

// Config is the team-rate configuration file.
type Config struct {
	Currency      string             `yaml:"currency" json:"currency"`
	DefaultMargin float64            `yaml:"default_margin" json:"default_margin"`
	Roles         []Role             `yaml:"roles" json:"roles"`
	Personas      map[string]Persona `yaml:"personas" json:"personas"`
}

func margin(v float64) *float64 { return &v }

// Default is the built-in configuration.
func Default() Config {
	return Config{
		Currency:      "USD",
		DefaultMargin: 0.35,
		Roles: []Role{
			{ID: "strategist", Name: "Strategist", HourlyCost: 55, Allocation: 0.10},
			{ID: "designer", Name: "Designer", HourlyCost: 60, Allocation: 0.25},
			{ID: "developer", Name: "Developer", HourlyCost: 70, Allocation: 0.45},
			{ID: "qa", Name: "QA Engineer", HourlyCost: 45, Allocation: 0.10},
			{ID: "pm", Name: "Project Manager", HourlyCost: 50, Allocation: 0.10},
		},
		Personas: map[string]Persona{
			Freelancer: {HourlyRate: 85},
			Agency:     {Margin: margin(0.45)},
			InHouse:    {Margin: margin(0)},
		},
	}
}

// Load reads a YAML configuration layered over Default. An empty or missing
// path yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read team rates: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse team rates %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("team rates %s: %w", path, err)
	}
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	return cfg, nil
}

// Validate rejects negative costs, allocations and margins.
func (c Config) Validate() error {
	if c.DefaultMargin < 0 {
		return fmt.Errorf("default_margin must not be negative")
	}
	seen := make(map[string]bool, len(c.Roles))
	for _, r := range c.Roles {
		if r.ID == "" {
			return fmt.Errorf("role without id")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate role %q", r.ID)
		}
		seen[r.ID] = true
		if r.HourlyCost < 0 || r.Allocation < 0 {
			return fmt.Errorf("role %q: hourly_cost and allocation must not be negative", r.ID)
		}
	}
	for name, p := range c.Personas {
		if p.HourlyRate < 0 || (p.Margin != nil && *p.Margin < 0) {
			return fmt.Errorf("persona %q: hourly_rate and margin must not be negative", name)
		}
	}
	return nil
}

// BlendedRate is the allocation-weighted hourly cost over roles with a
// positive allocation, or 0 when there are none.
func (c Config) BlendedRate() float64 {
	var cost, alloc float64
	for _, r := range c.Roles {
		if r.Allocation <= 0 {
			continue
		}
		cost += r.HourlyCost * r.Allocation
		alloc += r.Allocation
	}
	if alloc == 0 {
		return 0
	}
	return cost / alloc
}

// Persona returns the settings for name.
func (c Config) Persona(name string) (Persona, bool) {
	p, ok := c.Personas[name]
	return p, ok
}
