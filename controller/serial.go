package controller

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/calvinmclean/ardumoto"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// SerialPortNone is used in place of a port name to run a simulated motor instead of real hardware
const SerialPortNone = "none"

var (
	ErrNoUSBSerial = errors.New("no USB serial ports found")
	ErrTimeout     = errors.New("timed out waiting for firmware")
	ErrFirmware    = errors.New("firmware error")
)

// readTimeout is how long a single port read blocks before returning no data
const readTimeout = 100 * time.Millisecond

// GetSerialPorts returns the names of all USB serial ports
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var result []string
	for _, port := range ports {
		if port.IsUSB {
			result = append(result, port.Name)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}

	return result, nil
}

func openSerial(cfg Config) (serial.Port, error) {
	name := cfg.SerialPort
	if name == "" {
		ports, err := GetSerialPorts()
		if err != nil {
			return nil, err
		}
		name = ports[0]
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", name, err)
	}

	err = port.SetReadTimeout(readTimeout)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("error setting read timeout: %w", err)
	}

	time.Sleep(cfg.ResetDelay)

	// drop anything the board printed while starting
	err = port.ResetInputBuffer()
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("error resetting input buffer: %w", err)
	}

	return port, nil
}

// serialMotor sends commands to the firmware and waits for each one to be acknowledged. Steps per
// revolution and the step delay are read back from the firmware, since its driver is the one moving.
type serialMotor struct {
	rw          io.ReadWriter
	stepsPerRev int
	stepDelay   time.Duration
	timeout     time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

var _ Motor = &serialMotor{}

func newSerialMotor(rw io.ReadWriter, stepsPerRev int, timeout time.Duration) *serialMotor {
	return &serialMotor{
		rw:          rw,
		stepsPerRev: stepsPerRev,
		timeout:     timeout,
		now:         time.Now,
		logger:      slog.Default().With("component", "serial"),
	}
}

// SetSpeed implements Motor. The firmware's resulting step delay is read back with a status command.
func (m *serialMotor) SetSpeed(rpm int) error {
	err := validateSpeed(rpm)
	if err != nil {
		return err
	}

	_, err = m.command(fmt.Sprintf("%c%03d", ardumoto.FlagSpeed, rpm), m.timeout)
	if err != nil {
		return err
	}

	return m.refreshStatus()
}

// refreshStatus reads steps per revolution and step delay from the firmware's debug output
func (m *serialMotor) refreshStatus() error {
	resp, err := m.command(string(ardumoto.FlagDebug), m.timeout)
	if err != nil {
		return err
	}

	status, err := parseStatus(resp)
	if err != nil {
		return err
	}

	if status.stepsPerRev != m.stepsPerRev {
		m.logger.Warn(
			"firmware steps per revolution differ from config, using firmware value",
			"config", m.stepsPerRev,
			"firmware", status.stepsPerRev,
		)
	}

	m.stepsPerRev = status.stepsPerRev
	m.stepDelay = status.stepDelay
	return nil
}

// Step implements Motor. Moves that don't fit in one command are split up.
func (m *serialMotor) Step(steps int) error {
	flag := ardumoto.FlagForward
	if steps < 0 {
		flag = ardumoto.FlagBackward
		steps = -steps
	}

	for steps > 0 {
		n := min(steps, ardumoto.MaxStepsPerCommand)
		steps -= n

		_, err := m.command(fmt.Sprintf("%c%04d", flag, n), m.moveTimeout(n))
		if err != nil {
			return err
		}
	}

	return nil
}

// Revolution implements Motor. The firmware turns by its own steps per revolution.
func (m *serialMotor) Revolution(reverse bool) error {
	dir := '+'
	if reverse {
		dir = '-'
	}

	_, err := m.command(fmt.Sprintf("%c%c", ardumoto.FlagRevolution, dir), m.moveTimeout(m.stepsPerRev))
	return err
}

func (m *serialMotor) moveTimeout(steps int) time.Duration {
	return m.timeout + time.Duration(steps)*m.stepDelay
}

// Version implements Motor.
func (m *serialMotor) Version() (int, error) {
	resp, err := m.command(string(ardumoto.FlagVersion), m.timeout)
	if err != nil {
		return 0, err
	}

	var v int
	_, err = fmt.Sscanf(strings.TrimSpace(resp), "version %d", &v)
	if err != nil {
		return 0, fmt.Errorf("unexpected version response %q: %w", resp, err)
	}

	return v, nil
}

func (m *serialMotor) command(cmd string, timeout time.Duration) (string, error) {
	_, err := io.WriteString(m.rw, cmd)
	if err != nil {
		return "", fmt.Errorf("error writing command: %w", err)
	}

	resp, err := m.readResponse(m.now().Add(timeout))
	if err != nil {
		return resp, fmt.Errorf("error running command %q: %w", cmd, err)
	}

	if _, msg, found := strings.Cut(resp, "error:"); found {
		return resp, fmt.Errorf("%w: %s", ErrFirmware, strings.TrimSpace(msg))
	}

	return resp, nil
}

// readResponse reads until the firmware sends ardumoto.TerminationChar
func (m *serialMotor) readResponse(deadline time.Time) (string, error) {
	var sb strings.Builder
	b := make([]byte, 1)
	for {
		n, err := m.rw.Read(b)
		if err != nil {
			return sb.String(), fmt.Errorf("error reading response: %w", err)
		}

		if n == 0 {
			if m.now().After(deadline) {
				return sb.String(), ErrTimeout
			}
			continue
		}

		if b[0] == ardumoto.TerminationChar {
			return sb.String(), nil
		}
		sb.WriteByte(b[0])
	}
}

type firmwareStatus struct {
	stepsPerRev int
	stepDelay   time.Duration
}

// parseStatus reads the firmware's debug line, like "position=3/200 direction=Forward rpm=60 delay=5ms"
func parseStatus(resp string) (firmwareStatus, error) {
	var status firmwareStatus
	var foundSteps, foundDelay bool

	for _, field := range strings.Fields(resp) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}

		switch key {
		case "position":
			_, total, ok := strings.Cut(value, "/")
			if !ok {
				return firmwareStatus{}, fmt.Errorf("unexpected position %q", value)
			}
			n, err := strconv.Atoi(total)
			if err != nil || n <= 0 {
				return firmwareStatus{}, fmt.Errorf("unexpected steps per revolution %q", total)
			}
			status.stepsPerRev = n
			foundSteps = true
		case "delay":
			d, err := time.ParseDuration(value)
			if err != nil {
				return firmwareStatus{}, fmt.Errorf("unexpected delay %q: %w", value, err)
			}
			status.stepDelay = d
			foundDelay = true
		}
	}

	if !foundSteps || !foundDelay {
		return firmwareStatus{}, fmt.Errorf("unexpected status response %q", resp)
	}

	return status, nil
}
