package localdump

import (
	"fmt"
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progress draws one bar per source while pages are written.  The zero value draws nothing.
type progress struct {
	p    *mpb.Progress
	bars map[int]*mpb.Bar
}

func newProgress(out io.Writer, states []*sourceState) *progress {
	if out == nil {
		return &progress{}
	}
	p := mpb.New(mpb.WithOutput(out), mpb.WithWidth(64))

	bars := make(map[int]*mpb.Bar, len(states))
	for _, st := range states {
		if st.err != nil {
			continue
		}
		name := st.title
		if name == "" {
			name = st.config.DatabaseID
		}
		bars[st.index] = p.AddBar(int64(len(st.pages)),
			mpb.PrependDecorators(
				// display our name with one space on the right
				decor.Name(fmt.Sprintf("%s:", name),
					decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d/%d) "),
				decor.NewPercentage("%d"),
				decor.Spinner([]string{" /", " -", " \\", " |"}),
			),
		)
	}
	return &progress{p: p, bars: bars}
}

func (pr *progress) increment(source int) {
	if bar, ok := pr.bars[source]; ok {
		bar.Increment()
	}
}

func (pr *progress) wait() {
	if pr.p == nil {
		return
	}
	// failed writes never increment; don't leave their bars hanging
	for _, bar := range pr.bars {
		bar.Abort(false)
	}
	pr.p.Wait()
}
