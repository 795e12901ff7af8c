package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/calvinmclean/ardumoto/sim"
)

// Controller drives a stepper motor from the host. It is not safe for concurrent use.
type Controller struct {
	cfg    Config
	motor  Motor
	closer io.Closer
	logger *slog.Logger

	rpm int
}

// New connects to the motor described by cfg and sets its initial speed
func New(cfg Config) (*Controller, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var c *Controller
	switch cfg.SerialPort {
	case SerialPortNone:
		c = newController(cfg, newLocalMotor(cfg.StepsPerRevolution, sim.NewRealtime()), nil)
	default:
		port, err := openSerial(cfg)
		if err != nil {
			return nil, err
		}
		c = newController(cfg, newSerialMotor(port, cfg.StepsPerRevolution, cfg.Timeout), port)
	}

	err = c.SetSpeed(cfg.RPM)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("error setting initial speed: %w", err)
	}

	return c, nil
}

// NewFromEnv creates a Controller using NewConfigFromEnv
func NewFromEnv() (*Controller, error) {
	cfg, err := NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

func newController(cfg Config, motor Motor, closer io.Closer) *Controller {
	return &Controller{
		cfg:    cfg,
		motor:  motor,
		closer: closer,
		logger: slog.Default().With("component", "controller", "port", cfg.SerialPort),
	}
}

// SetSpeed sets the motor speed in RPM
func (c *Controller) SetSpeed(rpm int) error {
	c.logger.Debug("setting speed", "rpm", rpm)
	err := c.motor.SetSpeed(rpm)
	if err != nil {
		return err
	}
	c.rpm = rpm
	return nil
}

// Step moves the motor by the number of steps and blocks until it is done. Negative values move in reverse.
func (c *Controller) Step(steps int) error {
	c.logger.Debug("stepping", "steps", steps, "rpm", c.rpm)
	return c.motor.Step(steps)
}

// Revolution turns the motor one full revolution. The steps per revolution come from the driver, which
// is the firmware when connected over serial.
func (c *Controller) Revolution(reverse bool) error {
	c.logger.Debug("turning revolution", "reverse", reverse, "rpm", c.rpm)
	return c.motor.Revolution(reverse)
}

// Version returns the driver version reported by the motor
func (c *Controller) Version() (int, error) {
	return c.motor.Version()
}

// RPM returns the most recently set speed
func (c *Controller) RPM() int {
	return c.rpm
}

// Close closes the serial port, if there is one
func (c *Controller) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

const help = `Available Commands:
speed N: set the speed in RPM
step N: move N steps, negative values move in reverse
rev [-]: turn one full revolution, '-' moves in reverse
version: print the driver version
help: show this message
`

// Run reads line commands from in and writes results to out until in is closed or ctx is done
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	lines := make(chan string)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return scanner.Err()
			}

			err := c.exec(line, out)
			if err != nil {
				c.logger.Error("error running command", "command", line, "error", err)
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}

func (c *Controller) exec(line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "speed":
		rpm, err := intArg(args)
		if err != nil {
			return err
		}
		err = c.SetSpeed(rpm)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "speed=%d\n", rpm)
	case "step":
		steps, err := intArg(args)
		if err != nil {
			return err
		}
		err = c.Step(steps)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "moved %d steps\n", steps)
	case "rev":
		reverse := len(args) > 0 && args[0] == "-"
		err := c.Revolution(reverse)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "moved 1 revolution")
	case "version":
		v, err := c.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "version %d\n", v)
	case "help":
		fmt.Fprint(out, help)
	default:
		return fmt.Errorf("unknown command: %q", cmd)
	}

	return nil
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected a single number")
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", args[0], err)
	}
	return v, nil
}
