package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hamed0406/netwatch/internal/probe"
)

// Targets are the probe target lists. Any list left empty in the file falls
// back to the built-in defaults, so a file can override just one of them.
type Targets struct {
	Resolvers  []probe.ResolverPair `yaml:"resolvers"`
	PingHosts  []string             `yaml:"ping_hosts"`
	WebTargets []string             `yaml:"web_targets"`
}

// DefaultTargets returns the built-in target lists.
func DefaultTargets() Targets {
	return Targets{
		Resolvers:  probe.DefaultResolverPairs(),
		PingHosts:  probe.DefaultPingHosts(),
		WebTargets: probe.DefaultWebTargets(),
	}
}

// LoadTargets reads the YAML targets file. An empty path means defaults.
func LoadTargets(path string) (Targets, error) {
	if path == "" {
		return DefaultTargets(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Targets{}, fmt.Errorf("read targets file: %w", err)
	}

	var t Targets
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Targets{}, fmt.Errorf("parse targets file: %w", err)
	}

	if len(t.Resolvers) == 0 {
		t.Resolvers = probe.DefaultResolverPairs()
	}
	if len(t.PingHosts) == 0 {
		t.PingHosts = probe.DefaultPingHosts()
	}
	if len(t.WebTargets) == 0 {
		t.WebTargets = probe.DefaultWebTargets()
	}
	return t, nil
}
