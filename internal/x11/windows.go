package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Size is a width/height pair in pixels. A zero component is unconstrained.
type Size struct {
	Width  int
	Height int
}

// unboundedMax is what an unset maximum component is sent as.
const unboundedMax = math.MaxInt16

// MoveWindow moves a window so its top-left corner is at (x, y)
func (c *Connection) MoveWindow(windowID uint32, x, y int) error {
	win := xproto.Window(windowID)

	// Use EWMH so the window manager accounts for its frame
	if err := ewmh.MoveWindow(c.XUtil, win, x, y); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, win).Move(x, y)
	}
	return nil
}

// SetDecorated asks the window manager to draw (or drop) the title bar and
// borders via _MOTIF_WM_HINTS.
func (c *Connection) SetDecorated(windowID uint32, decorated bool) error {
	if err := motif.WmHintsSet(c.XUtil, xproto.Window(windowID), decorationHints(decorated)); err != nil {
		return fmt.Errorf("failed to set motif hints: %w", err)
	}
	return nil
}

func decorationHints(decorated bool) *motif.Hints {
	hints := &motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationNone}
	if decorated {
		hints.Decoration = motif.DecorationAll
	}
	return hints
}

// SetSizeHints publishes minimum and maximum sizes in WM_NORMAL_HINTS. Hints
// already on the window (base size, gravity) are preserved. A nil bound
// leaves that bound as it was.
func (c *Connection) SetSizeHints(windowID uint32, minSize, maxSize *Size) error {
	if minSize == nil && maxSize == nil {
		return nil
	}
	win := xproto.Window(windowID)
	current, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil {
		// Window has no hints yet
		current = &icccm.NormalHints{}
	}
	if err := icccm.WmNormalHintsSet(c.XUtil, win, normalHints(current, minSize, maxSize)); err != nil {
		return fmt.Errorf("failed to set normal hints: %w", err)
	}
	return nil
}

func normalHints(current *icccm.NormalHints, minSize, maxSize *Size) *icccm.NormalHints {
	hints := *current
	if minSize != nil {
		hints.Flags |= icccm.SizeHintPMinSize
		hints.MinWidth = clampDimension(minSize.Width, 0)
		hints.MinHeight = clampDimension(minSize.Height, 0)
	}
	if maxSize != nil {
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MaxWidth = clampDimension(maxSize.Width, unboundedMax)
		hints.MaxHeight = clampDimension(maxSize.Height, unboundedMax)
	}
	return &hints
}

func clampDimension(v int, unset uint) uint {
	if v <= 0 {
		return unset
	}
	if v > unboundedMax {
		return unboundedMax
	}
	return uint(v)
}

// Icon is one ARGB icon image, row-major, one pixel per element.
type Icon struct {
	Width  int
	Height int
	ARGB   []uint32
}

// SetIcon publishes icons as _NET_WM_ICON. Window managers pick the size
// closest to what they draw.
func (c *Connection) SetIcon(windowID uint32, icons ...Icon) error {
	wmIcons, err := wmIcons(icons)
	if err != nil {
		return err
	}
	if len(wmIcons) == 0 {
		return nil
	}
	if err := ewmh.WmIconSet(c.XUtil, xproto.Window(windowID), wmIcons); err != nil {
		return fmt.Errorf("failed to set window icon: %w", err)
	}
	return nil
}

func wmIcons(icons []Icon) ([]ewmh.WmIcon, error) {
	out := make([]ewmh.WmIcon, 0, len(icons))
	for _, icon := range icons {
		if icon.Width <= 0 || icon.Height <= 0 || len(icon.ARGB) != icon.Width*icon.Height {
			return nil, fmt.Errorf("icon %dx%d has %d pixels", icon.Width, icon.Height, len(icon.ARGB))
		}
		data := make([]uint, len(icon.ARGB))
		for i, px := range icon.ARGB {
			data[i] = uint(px)
		}
		out = append(out, ewmh.WmIcon{Width: uint(icon.Width), Height: uint(icon.Height), Data: data})
	}
	return out, nil
}
