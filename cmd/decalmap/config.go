package main

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/notargets/expmap/geometry"
	"github.com/spf13/pflag"
)

var formats = []string{"json", "yaml", "csv"}

// Config holds every tunable of a run. Values come from the defaults, then
// the TOML file named by --config, then any flags set on the command line.
type Config struct {
	Normalize    bool    `toml:"normalize"`
	NormalMethod string  `toml:"normal_method"`
	StopDist     float64 `toml:"stop_dist"`
	Rotation     float64 `toml:"rotation"`
	Scale        float64 `toml:"scale"`
	TranslateU   float64 `toml:"translate_u"`
	TranslateV   float64 `toml:"translate_v"`
	Format       string  `toml:"format"`
	TimeScale    float64 `toml:"time_scale"` // multiple of the squared mean edge length
}

func DefaultConfig() Config {
	return Config{
		Normalize:    true,
		NormalMethod: geometry.AreaWeighted.String(),
		StopDist:     0.5,
		Scale:        1,
		Format:       "json",
		TimeScale:    1,
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, err := geometry.ParseNormalMethod(c.NormalMethod); err != nil {
		return err
	}
	if !(c.StopDist > 0) {
		return fmt.Errorf("stop_dist must be positive, got %v", c.StopDist)
	}
	if !(c.Scale > 0) || math.IsInf(c.Scale, 1) {
		return fmt.Errorf("scale must be finite and positive, got %v", c.Scale)
	}
	if !(c.TimeScale > 0) || math.IsInf(c.TimeScale, 1) {
		return fmt.Errorf("time_scale must be finite and positive, got %v", c.TimeScale)
	}
	for name, x := range map[string]float64{"rotation": c.Rotation, "translate_u": c.TranslateU, "translate_v": c.TranslateV} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, x)
		}
	}
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("format must be one of %s, got %q", strings.Join(formats, "|"), c.Format)
	}
	return nil
}

// bindFlags registers one flag per Config field, defaulting to c.
func bindFlags(fs *pflag.FlagSet, c *Config) {
	fs.Bool("normalize", c.Normalize, "recenter and rescale the mesh to the unit ball")
	fs.String("normal-method", c.NormalMethod, "vertex normal weighting")
	fs.Float64("stop-dist", c.StopDist, "geodesic radius of the decal")
	fs.Float64("rotation", c.Rotation, "decal rotation in radians")
	fs.Float64("scale", c.Scale, "decal size divisor in UV space")
	fs.Float64("translate-u", c.TranslateU, "UV offset along u")
	fs.Float64("translate-v", c.TranslateV, "UV offset along v")
	fs.String("format", c.Format, "output format: "+strings.Join(formats, "|"))
	fs.Float64("time-scale", c.TimeScale, "heat diffusion time as a multiple of the squared mean edge length")
}

// applyFlags copies every flag set on the command line into c. Flags that
// do not belong to Config are ignored.
func applyFlags(fs *pflag.FlagSet, c *Config) error {
	floatFlags := map[string]*float64{
		"stop-dist":   &c.StopDist,
		"rotation":    &c.Rotation,
		"scale":       &c.Scale,
		"translate-u": &c.TranslateU,
		"translate-v": &c.TranslateV,
		"time-scale":  &c.TimeScale,
	}
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "normalize":
			c.Normalize, err = fs.GetBool(f.Name)
		case "normal-method":
			c.NormalMethod, err = fs.GetString(f.Name)
		case "format":
			c.Format, err = fs.GetString(f.Name)
		default:
			if dst, ok := floatFlags[f.Name]; ok {
				*dst, err = fs.GetFloat64(f.Name)
			}
		}
		if err != nil {
			err = fmt.Errorf("flag --%s: %w", f.Name, err)
		}
	})
	return err
}
