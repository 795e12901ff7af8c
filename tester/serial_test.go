package main_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/calvinmclean/ardumoto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// openPort opens the board named by ARDUMOTO_TEST_PORT and skips the test when it is not set
func openPort(t *testing.T) serial.Port {
	t.Helper()

	name := os.Getenv("ARDUMOTO_TEST_PORT")
	if name == "" {
		t.Skip("ARDUMOTO_TEST_PORT is not set")
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: 115200})
	require.NoError(t, err, "unexpected error opening serial connection")
	t.Cleanup(func() { port.Close() })

	require.NoError(t, port.SetReadTimeout(100*time.Millisecond))

	// the board resets when the port opens
	time.Sleep(2 * time.Second)
	require.NoError(t, port.ResetInputBuffer())

	return port
}

// sendSerial writes in and reads until acks termination characters were received
func sendSerial(t *testing.T, port serial.Port, in string, acks int) []string {
	t.Helper()

	_, err := port.Write([]byte(in))
	require.NoError(t, err, "unexpected error writing serial")

	var responses []string
	var sb strings.Builder
	buf := make([]byte, 64)
	deadline := time.Now().Add(5 * time.Second)
	for len(responses) < acks && time.Now().Before(deadline) {
		n, err := port.Read(buf)
		require.NoError(t, err, "unexpected error reading serial")

		for _, b := range buf[:n] {
			if b == ardumoto.TerminationChar {
				responses = append(responses, strings.TrimSpace(sb.String()))
				sb.Reset()
				continue
			}
			sb.WriteByte(b)
		}
	}

	return responses
}

func TestSerial(t *testing.T) {
	port := openPort(t)

	tests := []struct {
		name     string
		in       string
		expected []string
	}{
		{
			"Version",
			"V",
			[]string{"version 1"},
		},
		{
			"SpeedAndSteps",
			"R060F0010B0010",
			[]string{"", "", ""},
		},
		{
			"Revolution",
			"R120W+W-",
			[]string{"", "", ""},
		},
		{
			"InvalidSpeed",
			"R000",
			[]string{"error: invalid input: speed must be > 0"},
		},
		{
			"UnknownFlagsSkipped",
			"\r\nV",
			[]string{"version 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := sendSerial(t, port, tt.in, len(tt.expected))
			assert.Equal(t, tt.expected, out)
		})
	}
}
