package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/calvinmclean/ardumoto"

	"github.com/stretchr/testify/assert"
)

type call struct {
	name string
	arg  int64
}

type fakeController struct {
	in      *bytes.Reader
	out     bytes.Buffer
	calls   []call
	version int
}

func newFakeController(input string) *fakeController {
	return &fakeController{in: bytes.NewReader([]byte(input)), version: 1}
}

func (f *fakeController) SetSpeed(rpm uint) {
	f.calls = append(f.calls, call{"SetSpeed", int64(rpm)})
}

func (f *fakeController) Step(steps int32) {
	f.calls = append(f.calls, call{"Step", int64(steps)})
}

func (f *fakeController) Revolution(reverse bool) {
	var arg int64
	if reverse {
		arg = 1
	}
	f.calls = append(f.calls, call{"Revolution", arg})
}

func (f *fakeController) Version() int {
	f.calls = append(f.calls, call{"Version", 0})
	return f.version
}

func (f *fakeController) Debug() {
	f.calls = append(f.calls, call{"Debug", 0})
}

func (f *fakeController) ReadByte() (byte, error) {
	return f.in.ReadByte()
}

func (f *fakeController) WriteByte(b byte) error {
	return f.out.WriteByte(b)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		expectedCalls []call
		expectedAcks  int
	}{
		{
			"SetSpeed",
			"R060",
			[]call{{"SetSpeed", 60}},
			1,
		},
		{
			"SpeedZeroRejected",
			"R000",
			nil,
			1,
		},
		{
			"ForwardAndBackward",
			"F0200B0015",
			[]call{{"Step", 200}, {"Step", -15}},
			2,
		},
		{
			"InvalidDigits",
			"F02x0R120",
			[]call{{"SetSpeed", 120}},
			2,
		},
		{
			"Revolution",
			"W+W-W?",
			[]call{{"Revolution", 0}, {"Revolution", 1}},
			3,
		},
		{
			"VersionAndDebug",
			"VD",
			[]call{{"Version", 0}, {"Debug", 0}},
			2,
		},
		{
			"UnknownFlagsSkipped",
			"\r\nxR010",
			[]call{{"SetSpeed", 10}},
			1,
		},
		{
			"Help",
			"H",
			nil,
			1,
		},
		{
			"TruncatedInput",
			"F02",
			nil,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeController(tt.in)
			Run(c)

			assert.Equal(t, tt.expectedCalls, c.calls)
			assert.Equal(t, strings.Repeat(string([]byte{ardumoto.TerminationChar}), tt.expectedAcks), c.out.String())
		})
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		in       string
		expected uint
		err      bool
	}{
		{"000", 0, false},
		{"060", 60, false},
		{"9999", 9999, false},
		{"", 0, false},
		{"1a", 0, true},
		{"-1", 0, true},
	}

	for _, tt := range tests {
		v, err := digits([]byte(tt.in))
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.expected, v, tt.in)
	}
}

func TestCommandFlagsUnique(t *testing.T) {
	seen := map[byte]bool{HelpCommand.Flag: true}
	for _, cmd := range commands {
		assert.False(t, seen[cmd.Flag], "duplicate flag %q", cmd.Flag)
		seen[cmd.Flag] = true
		assert.NotEmpty(t, cmd.Description)
	}
}
