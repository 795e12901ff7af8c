package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerWrapper(t *testing.T) {
	var out bytes.Buffer
	lastCommand := newTimer()
	c := &controllerWrapper{writer: &out, lastCommandTimer: lastCommand}

	c.SetSpeed(120.4)
	c.Step(25)
	c.Step(0)
	c.Step(-3)
	c.Revolution(false)
	c.Revolution(true)

	assert.Equal(t, "speed 120\nstep 25\nstep -3\nrev\nrev -\n", out.String())

	_, started := lastCommand.elapsed(time.Now())
	assert.True(t, started)
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		elapsed  time.Duration
		started  bool
		expected string
	}{
		{0, false, "--:--.-"},
		{0, true, "00:00.0"},
		{1250 * time.Millisecond, true, "00:01.2"},
		{61*time.Second + 900*time.Millisecond, true, "01:01.9"},
		{125 * time.Minute, true, "125:00.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatElapsed(tt.elapsed, tt.started), tt.elapsed.String())
	}
}

func TestJogUIWrite(t *testing.T) {
	a := test.NewTempApp(t)
	ui := NewJogUI(a)

	n, err := ui.Write([]byte("speed=120\nmoved "))
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, "speed=120", ui.log.Text)

	_, err = ui.Write([]byte("10 steps\n"))
	require.NoError(t, err)
	assert.Equal(t, "speed=120\nmoved 10 steps", ui.log.Text)
}

func TestJogUILogLimit(t *testing.T) {
	a := test.NewTempApp(t)
	ui := NewJogUI(a)

	for range maxLogLines + 5 {
		_, err := ui.Write([]byte("moved 1 steps\n"))
		require.NoError(t, err)
	}

	assert.Len(t, strings.Split(ui.log.Text, "\n"), maxLogLines)
}
