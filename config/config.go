// Package config loads the viewer configuration from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/spriteshell/easing"
	"github.com/milk9111/spriteshell/shell"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Window  WindowSpec   `yaml:"window"`
	Clock   ClockSpec    `yaml:"clock"`
	Sheets  SheetsSpec   `yaml:"sheets"`
	Shell   ShellSpec    `yaml:"shell"`
	Easing  EasingSpec   `yaml:"easing"`
	Sprites []SpriteSpec `yaml:"sprites"`
}

type WindowSpec struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type ClockSpec struct {
	TPS   int     `yaml:"tps"`
	Scale float64 `yaml:"scale"`
}

// Interval is the duration of one tick at the configured rate.
func (c ClockSpec) Interval() time.Duration {
	if c.TPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TPS)
}

type SheetsSpec struct {
	Dirs       []string `yaml:"dirs"`
	Watch      bool     `yaml:"watch"`
	DebounceMS int      `yaml:"debounce_ms"`
}

func (s SheetsSpec) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

type ShellSpec struct {
	HorizontalParallax float64 `yaml:"horizontal_parallax"`
	VerticalParallax   float64 `yaml:"vertical_parallax"`
	BlurRadius         float64 `yaml:"blur_radius"`
	DurationMS         int     `yaml:"duration_ms"`
	Easing             string  `yaml:"easing"`
	DimColor           Color   `yaml:"dim_color"`
}

type EasingSpec struct {
	// Custom maps an equation name to a tengo script.
	Custom map[string]string `yaml:"custom"`
}

type SpriteSpec struct {
	Sheet  string  `yaml:"sheet"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Scale  float64 `yaml:"scale"`
	Loop   *bool   `yaml:"loop"`
	FlipH  bool    `yaml:"flip_h"`
	FlipV  bool    `yaml:"flip_v"`
	Paused bool    `yaml:"paused"`
}

// Looping defaults to true when loop is not set.
func (s SpriteSpec) Looping() bool {
	return s.Loop == nil || *s.Loop
}

// Color is a colour written as "#rrggbb".
type Color struct {
	colorful.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	s := strings.TrimSpace(value.Value)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	parsed, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", value.Value, err)
	}
	c.Color = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default: %v", err))
	}
	return cfg
}

// Parse decodes data over the built-in defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := base()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads path from disk. A missing file falls back to the embedded
// default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: %s not found, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// base holds the values used when a document leaves a field out.
func base() *Config {
	return &Config{
		Window: WindowSpec{Title: "spriteshell", Width: 960, Height: 540},
		Clock:  ClockSpec{TPS: 60, Scale: 1},
		Sheets: SheetsSpec{DebounceMS: 100},
		Shell: ShellSpec{
			HorizontalParallax: shell.DefaultParallax,
			VerticalParallax:   shell.DefaultParallax,
			BlurRadius:         shell.DefaultBlurRadius,
			DurationMS:         int(shell.DefaultDuration / time.Millisecond),
			Easing:             easing.QuadEaseIn.String(),
		},
	}
}

func (c *Config) Validate() error {
	var problems []string
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Clock.TPS <= 0 {
		problems = append(problems, fmt.Sprintf("clock tps %d", c.Clock.TPS))
	}
	if c.Clock.Scale < 0 || !finite(c.Clock.Scale) {
		problems = append(problems, fmt.Sprintf("clock scale %v", c.Clock.Scale))
	}
	if c.Sheets.DebounceMS < 0 {
		problems = append(problems, fmt.Sprintf("sheets debounce %dms", c.Sheets.DebounceMS))
	}
	if c.Shell.DurationMS < 0 {
		problems = append(problems, fmt.Sprintf("shell duration %dms", c.Shell.DurationMS))
	}
	for _, v := range []float64{c.Shell.HorizontalParallax, c.Shell.VerticalParallax, c.Shell.BlurRadius} {
		if !finite(v) {
			problems = append(problems, "shell values must be finite")
			break
		}
	}
	for i, s := range c.Sprites {
		if s.Sheet == "" {
			problems = append(problems, fmt.Sprintf("sprite %d has no sheet", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Table compiles the custom equations into a table.
func (e EasingSpec) Table() (*easing.Table, error) {
	t := easing.NewTable()
	names := make([]string, 0, len(e.Custom))
	for name := range e.Custom {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := t.DefineScript(name, e.Custom[name]); err != nil {
			return nil, fmt.Errorf("config: easing %s: %w", name, err)
		}
	}
	return t, nil
}

// Build resolves the shell settings against table, which may hold custom
// equations.
func (s ShellSpec) Build(table *easing.Table, w, h float64) (shell.Config, error) {
	curve, err := table.Resolve(s.Easing)
	if err != nil {
		return shell.Config{}, fmt.Errorf("config: shell easing: %w", err)
	}
	cfg := shell.DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.HorizontalParallax = s.HorizontalParallax
	cfg.VerticalParallax = s.VerticalParallax
	cfg.BlurRadius = s.BlurRadius
	cfg.Duration = time.Duration(s.DurationMS) * time.Millisecond
	cfg.Curve = curve
	if id, err := easing.ParseID(s.Easing); err == nil {
		cfg.Easing = id
	}
	cfg.DimColor = s.DimColor.Color
	return cfg, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
