package cli

import (
	"math"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"pfxcrack/internal/core/domain"
)

const progressRefresh = 250 * time.Millisecond

type progressSource interface {
	GetProgress() domain.JobProgress
}

type progressDisplay struct {
	done    chan struct{}
	stopped chan struct{}
}

// startProgress renders a bar on w while a search runs. It does nothing when
// w is not a terminal.
func startProgress(src progressSource, w *os.File) *progressDisplay {
	if !term.IsTerminal(int(w.Fd())) {
		return nil
	}

	d := &progressDisplay{
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go d.run(src, w)
	return d
}

func (d *progressDisplay) run(src progressSource, w *os.File) {
	defer close(d.stopped)

	ticker := time.NewTicker(progressRefresh)
	defer ticker.Stop()

	var bar *progressbar.ProgressBar
	for {
		select {
		case <-d.done:
			if bar != nil {
				bar.Set64(int64(clamp(src.GetProgress().Screened)))
				bar.Finish()
			}
			return
		case <-ticker.C:
			p := src.GetProgress()
			if p.Total == 0 {
				continue
			}
			if bar == nil {
				bar = newBar(p.Total, w)
			}
			bar.Set64(int64(clamp(p.Screened)))
		}
	}
}

func (d *progressDisplay) Stop() {
	close(d.done)
	<-d.stopped
}

func newBar(total uint64, w *os.File) *progressbar.ProgressBar {
	limit := int64(-1)
	if total <= math.MaxInt64 {
		limit = int64(total)
	}
	return progressbar.NewOptions64(limit,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("cracking"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pw"),
		progressbar.OptionThrottle(progressRefresh),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(25),
	)
}

func clamp(n uint64) uint64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return n
}
