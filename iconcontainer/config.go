package iconcontainer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

var (
	ErrUnknownLayoutMode    = errors.New("unknown layout mode")
	ErrUnknownLabelPosition = errors.New("unknown label position")
	ErrAutoLayout           = errors.New("positions cannot be reloaded in auto layout")
)

const (
	layoutModeKey    = "fyne:iconViewLayoutMode"
	labelPositionKey = "fyne:iconViewLabelPosition"
	autoLayoutKey    = "fyne:iconViewAutoLayout"
	keepAlignedKey   = "fyne:iconViewKeepAligned"
	tighterLayoutKey = "fyne:iconViewTighterLayout"
	zoomLevelKey     = "fyne:iconViewZoomLevel"
)

// Metrics are the pixel constants of the layout algorithms.
type Metrics struct {
	IconPadLeft   float32 `toml:"icon_pad_left"`
	IconPadRight  float32 `toml:"icon_pad_right"`
	IconPadTop    float32 `toml:"icon_pad_top"`
	IconPadBottom float32 `toml:"icon_pad_bottom"`

	ContainerPadLeft   float32 `toml:"container_pad_left"`
	ContainerPadRight  float32 `toml:"container_pad_right"`
	ContainerPadTop    float32 `toml:"container_pad_top"`
	ContainerPadBottom float32 `toml:"container_pad_bottom"`

	// GridWidth is the cell width that label-below icons are rounded up to.
	GridWidth float32 `toml:"grid_width"`

	DesktopPadHorizontal float32 `toml:"desktop_pad_horizontal"`
	DesktopPadVertical   float32 `toml:"desktop_pad_vertical"`
	SnapX                float32 `toml:"snap_x"`
	SnapY                float32 `toml:"snap_y"`

	// IconSize is the unstretched edge of an icon image at zoom 1.
	IconSize         float32 `toml:"icon_size"`
	SmallestIconSize float32 `toml:"smallest_icon_size"`
	StretchStep      float32 `toml:"stretch_step"`
	HandleSize       float32 `toml:"handle_size"`

	DoubleClickTime time.Duration `toml:"double_click_time"`
}

func DefaultMetrics() Metrics {
	return Metrics{
		IconPadLeft:          4,
		IconPadRight:         4,
		IconPadTop:           4,
		IconPadBottom:        4,
		ContainerPadLeft:     4,
		ContainerPadRight:    4,
		ContainerPadTop:      4,
		ContainerPadBottom:   4,
		GridWidth:            155,
		DesktopPadHorizontal: 10,
		DesktopPadVertical:   10,
		SnapX:                78,
		SnapY:                20,
		IconSize:             64,
		SmallestIconSize:     16,
		StretchStep:          5,
		HandleSize:           8,
		DoubleClickTime:      400 * time.Millisecond,
	}
}

// Config is the user-facing configuration of a Container, loadable from a
// TOML file and from fyne preferences.
type Config struct {
	LayoutMode          string  `toml:"layout_mode"`
	LabelPosition       string  `toml:"label_position"`
	AutoLayout          bool    `toml:"auto_layout"`
	KeepAligned         bool    `toml:"keep_aligned"`
	TighterLayout       bool    `toml:"tighter_layout"`
	AllColumnsSameWidth bool    `toml:"all_columns_same_width"`
	Desktop             bool    `toml:"desktop"`
	ZoomLevel           int     `toml:"zoom_level"`
	LogLevel            string  `toml:"log_level"`
	Metrics             Metrics `toml:"metrics"`
}

func DefaultConfig() Config {
	return Config{
		LayoutMode:    LayoutLeftRightTopBottom.String(),
		LabelPosition: LabelBelow.String(),
		AutoLayout:    true,
		ZoomLevel:     1,
		LogLevel:      "info",
		Metrics:       DefaultMetrics(),
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := ParseLayoutMode(c.LayoutMode); err != nil {
		return err
	}
	if _, err := ParseLabelPosition(c.LabelPosition); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	return c.Metrics.validate()
}

func (m Metrics) validate() error {
	if m.SnapX <= 0 || m.SnapY <= 0 || m.GridWidth <= 0 {
		return errors.New("metrics: snap and grid sizes must be positive")
	}
	if m.IconSize <= 0 || m.SmallestIconSize <= 0 {
		return errors.New("metrics: icon sizes must be positive")
	}
	return nil
}

func ParseLayoutMode(s string) (LayoutMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lr-tb":
		return LayoutLeftRightTopBottom, nil
	case "rl-tb":
		return LayoutRightLeftTopBottom, nil
	case "tb-lr":
		return LayoutTopBottomLeftRight, nil
	case "tb-rl":
		return LayoutTopBottomRightLeft, nil
	}
	return LayoutLeftRightTopBottom, fmt.Errorf("%w: %q", ErrUnknownLayoutMode, s)
}

func ParseLabelPosition(s string) (LabelPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "below":
		return LabelBelow, nil
	case "beside":
		return LabelBeside, nil
	}
	return LabelBelow, fmt.Errorf("%w: %q", ErrUnknownLabelPosition, s)
}

// LoadPreferences overrides cfg with any values stored in p.
func LoadPreferences(p fyne.Preferences, cfg *Config) {
	cfg.LayoutMode = p.StringWithFallback(layoutModeKey, cfg.LayoutMode)
	cfg.LabelPosition = p.StringWithFallback(labelPositionKey, cfg.LabelPosition)
	cfg.AutoLayout = p.BoolWithFallback(autoLayoutKey, cfg.AutoLayout)
	cfg.KeepAligned = p.BoolWithFallback(keepAlignedKey, cfg.KeepAligned)
	cfg.TighterLayout = p.BoolWithFallback(tighterLayoutKey, cfg.TighterLayout)
	cfg.ZoomLevel = p.IntWithFallback(zoomLevelKey, cfg.ZoomLevel)
}

func SavePreferences(p fyne.Preferences, cfg Config) {
	p.SetString(layoutModeKey, cfg.LayoutMode)
	p.SetString(labelPositionKey, cfg.LabelPosition)
	p.SetBool(autoLayoutKey, cfg.AutoLayout)
	p.SetBool(keepAlignedKey, cfg.KeepAligned)
	p.SetBool(tighterLayoutKey, cfg.TighterLayout)
	p.SetInt(zoomLevelKey, cfg.ZoomLevel)
}
