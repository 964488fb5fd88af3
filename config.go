package main

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	defDisplayWidth  = 144
	defDisplayHeight = 168
	defFontSize      = 18
	defHTTPListen    = ":8081"

	EnvVarPrefix = "ARCFACE"
)

var replacer = strings.NewReplacer(".", "_")

type Config struct {
	Display *DisplayConfig `mapstructure:"display" yaml:"display"`
	Face    *FaceConfig    `mapstructure:"face" yaml:"face"`
	Store   *StoreConfig   `mapstructure:"store" yaml:"store"`
	HTTP    *HTTPConfig    `mapstructure:"http" yaml:"http"`
	Haptic  *HapticConfig  `mapstructure:"haptic" yaml:"haptic"`
	Status  *StatusConfig  `mapstructure:"status" yaml:"status"`
	Input   *InputConfig   `mapstructure:"input" yaml:"input"`
}

type DisplayConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Panel  string `mapstructure:"panel" yaml:"panel"`
	I2CBus string `mapstructure:"i2c_bus" yaml:"i2c_bus"`
}

type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type HTTPConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
}

type HapticConfig struct {
	Pin string `mapstructure:"pin" yaml:"pin"`
}

type StatusConfig struct {
	BatteryPath     string        `mapstructure:"battery_path" yaml:"battery_path"`
	BatteryInterval time.Duration `mapstructure:"battery_interval" yaml:"battery_interval"`
	CompanionHost   string        `mapstructure:"companion_host" yaml:"companion_host"`
	LinkInterval    time.Duration `mapstructure:"link_interval" yaml:"link_interval"`
}

type InputConfig struct {
	PowerKey bool   `mapstructure:"power_key" yaml:"power_key"`
	Device   string `mapstructure:"device" yaml:"device"`
}

func DefaultConfig() *Config {
	return &Config{
		Display: &DisplayConfig{
			Width:  defDisplayWidth,
			Height: defDisplayHeight,
			Panel:  PANEL_NONE,
		},
		Face: &FaceConfig{
			Thickness:     DEFAULT_THICKNESS,
			ZeroReference: ZERO_REF_LEFT,
			Step:          DEFAULT_ARC_STEP,
			TickUnit:      "minute",
			DateMargin:    DEFAULT_DATE_MARGIN,
			Surface:       SURFACE_IMAGE,
			Arcs: []ArcSpec{
				{Name: "hours", Radius: 40, Source: "hours"},
				{Name: "minutes", Radius: 60, Source: "minutes"},
			},
			Font: FontConfig{FontSize: defFontSize},
		},
		Store: &StoreConfig{Path: DEFAULT_STORE_FILE},
		HTTP: &HTTPConfig{
			Enabled: true,
			Listen:  defHTTPListen,
		},
		Haptic: &HapticConfig{},
		Status: &StatusConfig{
			BatteryPath:     DEFAULT_BATTERY_PATH,
			BatteryInterval: DEFAULT_BATTERY_INTERVAL,
			LinkInterval:    DEFAULT_LINK_INTERVAL,
		},
		Input: &InputConfig{Device: POWER_KEY_DEVICE},
	}
}

// NewConfig layers defaults, the optional config file and ARCFACE_* environment
// variables, in that order.
func NewConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Viper needs to know a key exists before a file or env var can override it.
	b, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		fi, err := os.Stat(cfgFile)
		switch {
		case err != nil:
			log.Printf("No config file found [%s]: %v", cfgFile, err)
		case fi.IsDir():
			log.Printf("Config file points to a directory, not a file [%s]", cfgFile)
		default:
			v.SetConfigFile(cfgFile)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("parsing config file [%s]: %w", fi.Name(), err)
			}
		}
	}

	v.SetEnvPrefix(EnvVarPrefix)
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()
	bindVars(v, reflect.TypeOf(Config{}), "")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if len(c.Face.Arcs) == 0 {
		return fmt.Errorf("face needs at least one arc")
	}
	for _, a := range c.Face.Arcs {
		if a.Radius <= 0 {
			return fmt.Errorf("arc %q: radius must be positive", a.Name)
		}
		if _, err := parseArcSource(a.Source); err != nil {
			return fmt.Errorf("arc %q: %w", a.Name, err)
		}
	}
	if math.IsNaN(c.Face.Step) || math.IsInf(c.Face.Step, 0) || c.Face.Step < 0 {
		return fmt.Errorf("face step must be a finite non-negative angle, got %v", c.Face.Step)
	}
	switch c.Face.Surface {
	case SURFACE_IMAGE, SURFACE_DRAW2D:
	default:
		return fmt.Errorf("unknown surface %q", c.Face.Surface)
	}
	switch c.Display.Panel {
	case PANEL_NONE, PANEL_SSD1306:
	default:
		return fmt.Errorf("unknown panel %q", c.Display.Panel)
	}
	return nil
}

// bindVars registers every scalar leaf of t with viper so that environment
// variables are seen by Unmarshal.
func bindVars(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		tag = prefix + strings.ToUpper(tag)

		switch {
		case field.Type.Kind() == reflect.Struct:
			bindVars(v, field.Type, tag+".")
		case field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct:
			bindVars(v, field.Type.Elem(), tag+".")
		case field.Type.Kind() == reflect.Slice:
			// lists only come from the config file
		default:
			if err := v.BindEnv(tag); err != nil {
				log.Printf("Unable to bind to environment variable: %s. Error: %v", tag, err)
			}
		}
	}
}
