// This helper library has been graciously donated by @shabbyrobe; i'll leave the rest of the
// preamble intact:

// Not-at-all novel terminal style copypasta, originally from
// https://raw.githubusercontent.com/shabbyrobe/golib/master/termfmt/termfmt.go
// Provided under an MIT license.
//
// Trimmed down to bold and the 16 basic colours, which is all the sync summary needs.
package termfmt

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode"
)

type Escape interface {
	Wrap(out string) string
}

func With(escs ...Escape) Style { return (Style{}).With(escs...) }
func Bold() Style               { return (Style{}).Bold() }
func Fg(c16 C16Name) Style      { return (Style{}).Fg(c16) }

type Style struct {
	escapes []Escape
	v       any
}

var _ fmt.Formatter = Style{}

func (c Style) With(escs ...Escape) Style {
	c.escapes = append(append([]Escape{}, c.escapes...), escs...)
	return c
}

func (c Style) Bold() Style          { return c.With(BoldEscape{}) }
func (c Style) Fg(c16 C16Name) Style { return c.With(C16Color{c16, false}) }
func (c Style) Bg(c16 C16Name) Style { return c.With(C16Color{c16, true}) }

func (c Style) V(v any) Style {
	c.v = v
	return c
}

func (c Style) Format(f fmt.State, verb rune) {
	v := printable(fmt.Sprintf(buildValueFormat(f, verb), c.v))
	if enabled.Load() {
		for i := len(c.escapes) - 1; i >= 0; i-- {
			v = c.escapes[i].Wrap(v)
		}
	}
	f.Write([]byte(v))
}

var enabled atomic.Bool

func init() {
	enabled.Store(true)
}

// SetEnabled turns escapes on or off globally, e.g. for NO_COLOR or output that isn't a terminal.
func SetEnabled(on bool) { enabled.Store(on) }

func buildValueFormat(f fmt.State, verb rune) string {
	s := "%"
	for _, flag := range " +-0#" {
		if f.Flag(int(flag)) {
			s += string(flag)
		}
	}
	if width, ok := f.Width(); ok {
		s += strconv.Itoa(width)
	}
	if prec, ok := f.Precision(); ok {
		s += "." + strconv.Itoa(prec)
	}
	s += string(verb)
	return s
}

type BoldEscape struct{}

func (b BoldEscape) Wrap(v string) string { return fmt.Sprintf("\x1b[1m%s\x1b[0m", v) }

type C16Name uint8

const (
	DefaultColor C16Name = iota

	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	LightGrey

	DarkGrey
	LightRed
	LightGreen
	LightYellow
	LightBlue
	LightMagenta
	LightCyan
	White
)

type C16Color struct {
	Name C16Name
	Bg   bool
}

func (c C16Color) Wrap(out string) string {
	var cv uint8
	if c.Name == DefaultColor {
		cv = 39
	} else {
		// Our enum starts at one, adjust so it starts at 0:
		cv = uint8(c.Name) - 1

		// If fg, the lower 8 colours run from 30 to 37, the upper 8 from 90 to 97.
		// We take care of bg later.
		if c.Name < DarkGrey {
			cv += 30
		} else {
			cv += 82
		}
	}

	if c.Bg {
		cv += 10
	}

	return fmt.Sprintf("\x1b[%dm"+"%s"+"\x1b[0m", cv, out)
}

func mapPrintable(r rune) rune {
	if unicode.IsGraphic(r) {
		return r
	}
	return -1
}

func printable(v string) string {
	return strings.Map(mapPrintable, v)
}
