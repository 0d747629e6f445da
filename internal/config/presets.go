package config

import "sort"

func str(s string) *string { return &s }
func flag(b bool) *bool    { return &b }

// Presets holds named scenes per shape module. They only set the shape
// selection; simulation settings come from the defaults.
var Presets = map[string]map[string]*Config{
	"anchorscad": {
		"cone":    {Shape: "Cone", Example: "default", Part: str("default"), Material: str("default")},
		"spike":   {Shape: "Cone", Example: "spike"},
		"frustum": {Shape: "Cone", Example: "frustum"},
		"tube":    {Shape: "Tube", Example: "default", Physical: flag(true)},
		"bore":    {Shape: "Tube", Example: "default", Part: str("bore")},
		"ball":    {Shape: "Sphere", Example: "large"},
	},
	"anchorscad_models": {
		"bolt":    {Shape: "Bolt", Example: "default"},
		"knurled": {Shape: "Bolt", Example: "knurled"},
		"nut":     {Shape: "Nut", Example: "default"},
		"hub":     {Shape: "Flange", Example: "default", Part: str("hub")},
		"washer":  {Shape: "Washer", Example: "default", Physical: flag(true)},
	},
}

// GetPreset returns the named preset of module merged over the defaults,
// or nil when it does not exist.
func GetPreset(module, preset string) *Config {
	modulePresets, ok := Presets[module]
	if !ok {
		return nil
	}
	p, ok := modulePresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Module = module
	cfg.Shape = p.Shape
	cfg.Example = p.Example
	cfg.Part = cloneString(p.Part)
	cfg.Material = cloneString(p.Material)
	cfg.Physical = cloneBool(p.Physical)
	return cfg
}

func ListPresets(module string) []string {
	modulePresets, ok := Presets[module]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modulePresets))
	for name := range modulePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
