// Package experiment ties the voting, fusion and scoring packages together
// into one batch run described by a YAML file.
package experiment

import (
	"errors"
	"fmt"
	"os"

	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/ecgfusion/fusion"
	"github.com/carbocation/ecgfusion/ovo"
	"github.com/carbocation/pfx"
	"gopkg.in/yaml.v3"
)

// DefaultClasses is the AAMI N/S/V/F scheme.
const DefaultClasses = 4

// Config describes one experiment. Paths may be local (with ~ expansion),
// gs:// objects, or compressed files.
type Config struct {
	ConfigPath string `yaml:"-"`

	Name      string `yaml:"name"`
	Labels    string `yaml:"labels"`
	OutputDir string `yaml:"output_dir"`
	Store     string `yaml:"store"`
	Classes   int    `yaml:"classes"`
	Workers   int    `yaml:"workers"`

	Models   []Model         `yaml:"models"`
	Fusion   *FusionConfig   `yaml:"fusion"`
	Dempster *DempsterConfig `yaml:"dempster"`
}

// Model is one one-vs-one classifier's decision matrix and the policy used
// to vote on it.
type Model struct {
	Name      string `yaml:"name"`
	Decisions string `yaml:"decisions"`
	Policy    string `yaml:"policy"`

	policy ovo.Policy
}

// FusionConfig lists the basic combination rules to apply across all models.
// An empty list means every rule.
type FusionConfig struct {
	Rules []string `yaml:"rules"`

	rules []fusion.Rule
}

// DempsterConfig lists the evidence files combined with Dempster's rule.
type DempsterConfig struct {
	Name         string     `yaml:"name"`
	SkipConflict bool       `yaml:"skip_conflict"`
	Evidence     []Evidence `yaml:"evidence"`
}

// Evidence is one modality's per-instance N/S/V/F mass table.
type Evidence struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ParseConfigFromPath reads and validates a YAML experiment file.
func ParseConfigFromPath(path string) (Config, error) {
	path = ecgfusion.ExpandHome(path)

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, pfx.Err(err)
	}

	out, err := ParseConfig(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	out.ConfigPath = path

	return out, nil
}

// ParseConfig decodes and validates a YAML experiment description.
func ParseConfig(b []byte) (Config, error) {
	var out Config

	if err := yaml.Unmarshal(b, &out); err != nil {
		return Config{}, pfx.Err(err)
	}

	if err := out.Validate(); err != nil {
		return Config{}, err
	}

	// Interpret ~ if present
	out.Labels = ecgfusion.ExpandHome(out.Labels)
	out.OutputDir = ecgfusion.ExpandHome(out.OutputDir)
	out.Store = ecgfusion.ExpandHome(out.Store)
	for i := range out.Models {
		out.Models[i].Decisions = ecgfusion.ExpandHome(out.Models[i].Decisions)
	}
	if out.Dempster != nil {
		for i := range out.Dempster.Evidence {
			out.Dempster.Evidence[i].Path = ecgfusion.ExpandHome(out.Dempster.Evidence[i].Path)
		}
	}

	return out, nil
}

// Validate checks names, policies and rules and fills in defaults. It is
// called by ParseConfig; configs built in code should call it before Run.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("experiment: name is required")
	}
	if c.Labels == "" {
		return errors.New("experiment: labels path is required")
	}

	if c.Classes == 0 {
		c.Classes = DefaultClasses
	}
	if c.Classes < 2 {
		return fmt.Errorf("experiment: need at least 2 classes, got %d", c.Classes)
	}

	if len(c.Models) == 0 && (c.Dempster == nil || len(c.Dempster.Evidence) == 0) {
		return errors.New("experiment: nothing to run, configure models or dempster evidence")
	}

	seen := make(map[string]struct{})
	for i := range c.Models {
		m := &c.Models[i]
		if m.Name == "" || m.Decisions == "" {
			return fmt.Errorf("experiment: model %d needs a name and a decisions path", i)
		}
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("experiment: duplicate model name %q", m.Name)
		}
		seen[m.Name] = struct{}{}

		if m.Policy == "" {
			m.Policy = ovo.Binary.String()
		}
		p, err := ovo.ParsePolicy(m.Policy)
		if err != nil {
			return fmt.Errorf("experiment: model %q: %w", m.Name, err)
		}
		m.policy = p
	}

	if c.Fusion != nil {
		if len(c.Models) == 0 {
			return errors.New("experiment: fusion needs at least one model")
		}

		c.Fusion.rules = c.Fusion.rules[:0]
		if len(c.Fusion.Rules) == 0 {
			c.Fusion.rules = append(c.Fusion.rules, fusion.Rules...)
		}
		for _, name := range c.Fusion.Rules {
			r, err := fusion.ParseRule(name)
			if err != nil {
				return fmt.Errorf("experiment: %w", err)
			}
			c.Fusion.rules = append(c.Fusion.rules, r)
		}
	}

	if c.Dempster != nil {
		if len(c.Dempster.Evidence) == 0 {
			return errors.New("experiment: dempster needs at least one evidence file")
		}
		if c.Dempster.Name == "" {
			c.Dempster.Name = "ds"
		}
		for i, ev := range c.Dempster.Evidence {
			if ev.Path == "" {
				return fmt.Errorf("experiment: evidence %d has no path", i)
			}
			if ev.Name == "" {
				c.Dempster.Evidence[i].Name = fmt.Sprintf("evidence%d", i)
			}
		}
	}

	return nil
}

// Paths lists every input path, for deciding whether a storage client is
// needed.
func (c Config) Paths() []string {
	out := []string{c.Labels}
	for _, m := range c.Models {
		out = append(out, m.Decisions)
	}
	if c.Dempster != nil {
		for _, ev := range c.Dempster.Evidence {
			out = append(out, ev.Path)
		}
	}
	return out
}
