// Package stepper drives a 4-wire bipolar stepper motor through an H-bridge shield with two PWM
// magnitude pins and two direction pins.
//
// A Driver is not safe for concurrent use. It is meant to be owned by a single control loop.
package stepper

import "time"

// Version is the revision of the driver
const Version = 1

// microsPerMinute is used to convert a speed in RPM to a delay between steps. It is typed so the
// math stays in 32 bits on boards where int is 16 bits.
const microsPerMinute uint32 = 60 * 1000 * 1000

// Direction is the direction the motor turns when stepping
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "Forward"
	case Reverse:
		return "Reverse"
	default:
		return "Unknown"
	}
}

// Driver tracks the motor's phase position and paces steps with the platform's microsecond clock
type Driver struct {
	platform           Platform
	stepsPerRevolution int

	// position is the current phase position in [0, stepsPerRevolution)
	position  int
	direction Direction

	// stepDelay is the minimum number of microseconds between phase changes
	stepDelay uint32
	// lastStep is the Micros() reading of the most recent phase change
	lastStep uint32

	// remaining is the number of steps left in the current move
	remaining int
}

// New creates a Driver for a motor with the given number of steps per revolution and configures the
// shield pins as outputs. The step count is not validated and SetSpeed must be called before stepping.
func New(stepsPerRevolution int, p Platform) *Driver {
	d := &Driver{
		platform:           p,
		stepsPerRevolution: stepsPerRevolution,
		position:           0,
		direction:          Forward,
		lastStep:           0,
	}
	for _, pin := range Pins {
		p.ConfigureOutput(pin)
	}
	return d
}

// SetSpeed sets the speed in revolutions per minute. Zero is not allowed and will panic.
func (d *Driver) SetSpeed(rpm int) {
	d.stepDelay = microsPerMinute / uint32(d.stepsPerRevolution) / uint32(rpm)
}

// Step moves the motor by the number of steps. Negative values move in reverse and zero does nothing.
// It busy-waits on the platform clock between steps and only returns once every step is done.
func (d *Driver) Step(steps int) {
	d.Move(steps)
	for d.Tick() {
	}
}

// Move starts a move without blocking. Tick must be called until it returns false to complete it.
// Calling Move again replaces any steps that are still remaining.
func (d *Driver) Move(steps int) {
	if steps > 0 {
		d.direction = Forward
	}
	if steps < 0 {
		d.direction = Reverse
		steps = -steps
	}
	d.remaining = steps
}

// Tick takes at most one step of the current move if the step delay has passed since the last one.
// It returns true while steps remain.
func (d *Driver) Tick() bool {
	if d.remaining <= 0 {
		return false
	}

	now := d.platform.Micros()
	// unsigned subtraction keeps this correct when the clock wraps
	if now-d.lastStep >= d.stepDelay {
		d.lastStep = now
		d.advance()
		d.remaining--
		d.emit(d.position % 4)
	}

	return d.remaining > 0
}

func (d *Driver) advance() {
	if d.direction == Forward {
		d.position++
		if d.position == d.stepsPerRevolution {
			d.position = 0
		}
		return
	}

	if d.position == 0 {
		d.position = d.stepsPerRevolution
	}
	d.position--
}

// Version returns the revision of the driver
func (d *Driver) Version() int {
	return Version
}

// Position returns the current phase position in [0, StepsPerRevolution)
func (d *Driver) Position() int {
	return d.position
}

// Direction returns the direction of the most recent non-zero move
func (d *Driver) Direction() Direction {
	return d.direction
}

func (d *Driver) StepsPerRevolution() int {
	return d.stepsPerRevolution
}

// StepDelay returns the minimum time between steps at the current speed
func (d *Driver) StepDelay() time.Duration {
	return time.Duration(d.stepDelay) * time.Microsecond
}

// Remaining returns the number of steps left in the current move
func (d *Driver) Remaining() int {
	return d.remaining
}
