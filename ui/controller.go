package ui

import (
	"fmt"
	"io"
	"time"
)

// controllerWrapper turns button presses into controller REPL lines
type controllerWrapper struct {
	writer           io.Writer
	lastCommandTimer *timer
}

func (c *controllerWrapper) SetSpeed(rpm float64) {
	c.send("speed %.0f", rpm)
}

func (c *controllerWrapper) Step(steps int) {
	if steps == 0 {
		return
	}
	c.send("step %d", steps)
}

func (c *controllerWrapper) Revolution(reverse bool) {
	if reverse {
		c.send("rev -")
		return
	}
	c.send("rev")
}

func (c *controllerWrapper) send(format string, args ...any) {
	if c.lastCommandTimer != nil {
		c.lastCommandTimer.Set(time.Now())
	}
	fmt.Fprintf(c.writer, format+"\n", args...)
}
