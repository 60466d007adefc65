package termfmt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyle_Format(t *testing.T) {
	SetEnabled(true)
	assert.Equal(t, "\x1b[1mhi\x1b[0m", fmt.Sprintf("%s", Bold().V("hi")))
	assert.Equal(t, "\x1b[32m\x1b[1mok\x1b[0m\x1b[0m", fmt.Sprintf("%s", Fg(Green).Bold().V("ok")))
	assert.Equal(t, "\x1b[90mx\x1b[0m", fmt.Sprintf("%s", Fg(DarkGrey).V("x")))
	assert.Equal(t, "\x1b[41mx\x1b[0m", fmt.Sprintf("%s", With().Bg(Red).V("x")))
}

func TestStyle_FormatKeepsVerbAndWidth(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(true) })

	assert.Equal(t, "   42", fmt.Sprintf("%5d", Bold().V(42)))
	assert.Equal(t, "ab", fmt.Sprintf("%v", Bold().V("a\x07b")), "unprintables are dropped")
}
