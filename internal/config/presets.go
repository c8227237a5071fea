package config

import "slices"

var Presets = map[string]map[string]*Config{
	"drop": {
		"default": preset("drop", nil),
		"bouncy": preset("drop", func(c *Config) {
			c.Solver.RestitutionThreshold = 10
		}),
	},
	"tower": {
		"default": preset("tower", nil),
		"precise": preset("tower", func(c *Config) {
			c.Solver.Iterations = 30
			c.Dt = 0.005
		}),
		"soft": preset("tower", func(c *Config) {
			c.Solver.BiasFactor = 0.2
		}),
	},
	"slope": {
		"default": preset("slope", nil),
	},
	"pyramid": {
		"default": preset("pyramid", func(c *Config) {
			c.Duration = 20
		}),
		"brute": preset("pyramid", func(c *Config) {
			c.BroadPhase = "brute"
			c.Duration = 5
		}),
	},
	"towers": {
		"default": preset("towers", nil),
	},
	"chain": {
		"default": preset("chain", nil),
		"no-split": preset("chain", func(c *Config) {
			c.Solver.SplitImpulse = false
		}),
	},
	"well": {
		"default": preset("well", func(c *Config) {
			c.Gravity = GravityConfig{}
		}),
	},
	"bridge": {
		"default": preset("bridge", nil),
	},
	"ramps": {
		"default": preset("ramps", nil),
	},
	"particles": {
		"default": preset("particles", func(c *Config) {
			c.Duration = 3
		}),
	},
	"bomb": {
		"default": preset("bomb", nil),
	},
}

func preset(scene string, edit func(*Config)) *Config {
	c := DefaultConfig()
	c.Scene = scene
	if edit != nil {
		edit(c)
	}
	return c
}

// GetPreset returns a copy, so callers may override fields freely.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
