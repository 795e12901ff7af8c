package commands

import (
	"errors"
	"io"

	"github.com/calvinmclean/ardumoto"
)

type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, []byte) error
	Description string
}

// Controller is used to control a device
type Controller interface {
	SetSpeed(rpm uint)
	Step(steps int32)
	Revolution(reverse bool)
	Version() int
	Debug()

	// I/O
	ReadByte() (byte, error)
	WriteByte(byte) error
}

var (
	SetSpeedCommand = &Command{
		Flag:      ardumoto.FlagSpeed,
		InputSize: 3,
		Run: func(c Controller, input []byte) error {
			rpm, err := digits(input)
			if err != nil {
				return err
			}
			if rpm == 0 {
				return errors.New("invalid input: speed must be > 0")
			}
			c.SetSpeed(rpm)
			return nil
		},
		Description: "Set the speed in RPM. Input: 3 digits (001-999).",
	}
	ForwardCommand = &Command{
		Flag:      ardumoto.FlagForward,
		InputSize: 4,
		Run: func(c Controller, input []byte) error {
			steps, err := digits(input)
			if err != nil {
				return err
			}
			c.Step(int32(steps))
			return nil
		},
		Description: "Step forward. Input: 4 digits (0000-9999).",
	}
	BackwardCommand = &Command{
		Flag:      ardumoto.FlagBackward,
		InputSize: 4,
		Run: func(c Controller, input []byte) error {
			steps, err := digits(input)
			if err != nil {
				return err
			}
			c.Step(-int32(steps))
			return nil
		},
		Description: "Step backward. Input: 4 digits (0000-9999).",
	}
	RevolutionCommand = &Command{
		Flag:      ardumoto.FlagRevolution,
		InputSize: 1,
		Run: func(c Controller, input []byte) error {
			switch input[0] {
			case '+':
				c.Revolution(false)
			case '-':
				c.Revolution(true)
			default:
				return errors.New("invalid input: " + string(input))
			}
			return nil
		},
		Description: "Turn one full revolution. Input: '+' (forward) or '-' (backward).",
	}
	VersionCommand = &Command{
		Flag:      ardumoto.FlagVersion,
		InputSize: 0,
		Run: func(c Controller, _ []byte) error {
			println("version", c.Version())
			return nil
		},
		Description: "Print the driver version.",
	}
	DebugCommand = &Command{
		Flag:      ardumoto.FlagDebug,
		InputSize: 0,
		Run: func(c Controller, _ []byte) error {
			c.Debug()
			return nil
		},
		Description: "Print the current position, direction and step delay.",
	}
	HelpCommand = &Command{
		Flag:        ardumoto.FlagHelp,
		InputSize:   0,
		Description: "Show all available commands and their descriptions.",
		Run: func(c Controller, b []byte) error {
			println("Available Commands:")
			for _, cmd := range commands {
				println(string(cmd.Flag) + ": " + cmd.Description)
			}
			return nil
		},
	}
)

var commands = []*Command{
	SetSpeedCommand,
	ForwardCommand,
	BackwardCommand,
	RevolutionCommand,
	VersionCommand,
	DebugCommand,
}

// digits parses a fixed-width, zero-padded decimal input
func digits(input []byte) (uint, error) {
	var v uint
	for _, b := range input {
		if b < '0' || b > '9' {
			return 0, errors.New("invalid input: " + string(input))
		}
		v = v*10 + uint(b-'0')
	}
	return v, nil
}

// Run reads commands from the Controller until it returns io.EOF. Unknown flags are skipped and every
// other command, including failed ones, is acknowledged with ardumoto.TerminationChar.
func Run(c Controller) {
	cmdMap := map[byte]*Command{
		HelpCommand.Flag: HelpCommand,
	}

	for _, cmd := range commands {
		cmdMap[cmd.Flag] = cmd
	}

	for {
		cmdIn, err := c.ReadByte()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			continue
		}

		cmd, ok := cmdMap[cmdIn]
		if !ok {
			continue
		}

		in := make([]byte, cmd.InputSize)
		for i := 0; i < int(cmd.InputSize); {
			b, err := c.ReadByte()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				continue
			}

			in[i] = b
			i++
		}

		err = cmd.Run(c, in)
		if err != nil {
			println("error:", err.Error())
		}
		_ = c.WriteByte(ardumoto.TerminationChar)
	}
}
