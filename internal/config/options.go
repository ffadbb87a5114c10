package config

import (
	"fmt"
)

// DefaultAppName is used for both the app name and the window title when
// neither is supplied.
const DefaultAppName = "Glacier App"

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Options describes the native window and its embedded surface.
//
// Every field is optional. A nil field means "absent"; absent fields are
// filled from Defaults by Resolve when a window is constructed, never at read
// time. Accessors return the zero value for a field that is absent when read.
type Options struct {
	// AppName names the application and derives the surface storage directory.
	AppName *string `yaml:"app_name,omitempty" toml:"app_name,omitempty"`

	// Position (logical pixels).
	X *int `yaml:"x,omitempty" toml:"x,omitempty"`
	Y *int `yaml:"y,omitempty" toml:"y,omitempty"`

	// Size (logical pixels, scaled by the platform).
	Width     *int  `yaml:"width,omitempty" toml:"width,omitempty"`
	Height    *int  `yaml:"height,omitempty" toml:"height,omitempty"`
	MinWidth  *int  `yaml:"min_width,omitempty" toml:"min_width,omitempty"`
	MinHeight *int  `yaml:"min_height,omitempty" toml:"min_height,omitempty"`
	MaxWidth  *int  `yaml:"max_width,omitempty" toml:"max_width,omitempty"`
	MaxHeight *int  `yaml:"max_height,omitempty" toml:"max_height,omitempty"`
	Resizable *bool `yaml:"resizable,omitempty" toml:"resizable,omitempty"`

	Title *string `yaml:"title,omitempty" toml:"title,omitempty"`

	// Icon is a path to an image file (png, jpeg, gif, bmp, webp, tiff).
	Icon     *string `yaml:"icon,omitempty" toml:"icon,omitempty"`
	Show     *bool   `yaml:"show,omitempty" toml:"show,omitempty"`
	Frame    *bool   `yaml:"frame,omitempty" toml:"frame,omitempty"`
	DevTools *bool   `yaml:"devtools,omitempty" toml:"devtools,omitempty"`
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Defaults returns the documented default options.
func Defaults() Options {
	return Options{
		AppName:   String(DefaultAppName),
		Width:     Int(DefaultWidth),
		Height:    Int(DefaultHeight),
		Resizable: Bool(true),
		Title:     String(DefaultAppName),
		Show:      Bool(true),
		Frame:     Bool(true),
		DevTools:  Bool(false),
	}
}

// Resolve returns the options a window is constructed with: Defaults for nil,
// otherwise opts with every absent field filled from Defaults.
func Resolve(opts *Options) Options {
	if opts == nil {
		return Defaults()
	}
	resolved := Defaults()
	resolved.Merge(opts)
	return resolved
}

// Merge overlays every non-nil field of override onto o.
func (o *Options) Merge(override *Options) {
	if o == nil || override == nil {
		return
	}
	mergeString(&o.AppName, override.AppName)
	mergeInt(&o.X, override.X)
	mergeInt(&o.Y, override.Y)
	mergeInt(&o.Width, override.Width)
	mergeInt(&o.Height, override.Height)
	mergeInt(&o.MinWidth, override.MinWidth)
	mergeInt(&o.MinHeight, override.MinHeight)
	mergeInt(&o.MaxWidth, override.MaxWidth)
	mergeInt(&o.MaxHeight, override.MaxHeight)
	mergeBool(&o.Resizable, override.Resizable)
	mergeString(&o.Title, override.Title)
	mergeString(&o.Icon, override.Icon)
	mergeBool(&o.Show, override.Show)
	mergeBool(&o.Frame, override.Frame)
	mergeBool(&o.DevTools, override.DevTools)
}

// Clone returns a deep copy so callers cannot alias the window's fields.
func (o Options) Clone() Options {
	out := Options{}
	out.Merge(&o)
	return out
}

func mergeString(dst **string, src *string) {
	if src != nil {
		*dst = String(*src)
	}
}

func mergeInt(dst **int, src *int) {
	if src != nil {
		*dst = Int(*src)
	}
}

func mergeBool(dst **bool, src *bool) {
	if src != nil {
		*dst = Bool(*src)
	}
}

// GetAppName returns the app name, or "" when absent.
func (o Options) GetAppName() string { return derefString(o.AppName) }

// GetTitle returns the window title, or "" when absent.
func (o Options) GetTitle() string { return derefString(o.Title) }

func (o Options) GetIcon() string { return derefString(o.Icon) }

// GetWidth returns the width, or 0 when absent.
func (o Options) GetWidth() int { return derefInt(o.Width) }

// GetHeight returns the height, or 0 when absent.
func (o Options) GetHeight() int { return derefInt(o.Height) }

func (o Options) GetResizable() bool { return derefBool(o.Resizable) }
func (o Options) GetShow() bool      { return derefBool(o.Show) }
func (o Options) GetFrame() bool     { return derefBool(o.Frame) }
func (o Options) GetDevTools() bool  { return derefBool(o.DevTools) }

// GetPosition returns the requested top-left corner. ok is false unless both
// coordinates are set.
func (o Options) GetPosition() (x, y int, ok bool) {
	if o.X == nil || o.Y == nil {
		return 0, 0, false
	}
	return *o.X, *o.Y, true
}

// GetMinSize returns the minimum size bound. A missing dimension reads as 0.
func (o Options) GetMinSize() (w, h int, ok bool) {
	if o.MinWidth == nil && o.MinHeight == nil {
		return 0, 0, false
	}
	return derefInt(o.MinWidth), derefInt(o.MinHeight), true
}

// GetMaxSize returns the maximum size bound. A missing dimension reads as 0.
func (o Options) GetMaxSize() (w, h int, ok bool) {
	if o.MaxWidth == nil && o.MaxHeight == nil {
		return 0, 0, false
	}
	return derefInt(o.MaxWidth), derefInt(o.MaxHeight), true
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

// Warning is an advisory finding about an options record. Warnings never
// prevent a window from being created; the native window system decides what
// an odd geometry means.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	if w.Path == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// Validate reports suspicious combinations such as a zero size or min > max.
func (o Options) Validate() []Warning {
	var warnings []Warning
	if o.Width != nil && *o.Width <= 0 {
		warnings = append(warnings, Warning{Path: "width", Message: "width is not positive"})
	}
	if o.Height != nil && *o.Height <= 0 {
		warnings = append(warnings, Warning{Path: "height", Message: "height is not positive"})
	}
	if (o.X == nil) != (o.Y == nil) {
		warnings = append(warnings, Warning{Path: "x/y", Message: "position needs both x and y; it will be ignored"})
	}
	if o.MinWidth != nil && o.MaxWidth != nil && *o.MinWidth > *o.MaxWidth {
		warnings = append(warnings, Warning{Path: "min_width", Message: fmt.Sprintf("min_width %d exceeds max_width %d", *o.MinWidth, *o.MaxWidth)})
	}
	if o.MinHeight != nil && o.MaxHeight != nil && *o.MinHeight > *o.MaxHeight {
		warnings = append(warnings, Warning{Path: "min_height", Message: fmt.Sprintf("min_height %d exceeds max_height %d", *o.MinHeight, *o.MaxHeight)})
	}
	if o.AppName != nil && *o.AppName == "" {
		warnings = append(warnings, Warning{Path: "app_name", Message: "empty app_name shares the temp root as storage directory"})
	}
	return warnings
}
