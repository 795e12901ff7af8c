package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// timer shows the time since it was last Set. It reads "--:--.-" until the first Set.
type timer struct {
	mtx   sync.Mutex
	start time.Time
	text  *canvas.Text
}

func newTimer() *timer {
	return &timer{
		text: canvas.NewText(formatElapsed(0, false), nil),
	}
}

func (t *timer) Set(start time.Time) {
	t.mtx.Lock()
	t.start = start
	t.mtx.Unlock()
}

func (t *timer) elapsed(now time.Time) (time.Duration, bool) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.start.IsZero() {
		return 0, false
	}
	return now.Sub(t.start), true
}

// Go refreshes the text until ctx is done
func (t *timer) Go(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				elapsed, started := t.elapsed(now)
				fyne.Do(func() {
					t.text.Text = formatElapsed(elapsed, started)
					t.text.Refresh()
				})
			}
		}
	}()
}

func formatElapsed(elapsed time.Duration, started bool) string {
	if !started {
		return "--:--.-"
	}
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	tenths := int(elapsed.Milliseconds()) % 1000 / 100
	return fmt.Sprintf("%02d:%02d.%d", minutes, seconds, tenths)
}
