// Package sim provides a simulated stepper.Platform that records pin writes and runs on a fake or
// wall clock. It is used by tests and by the host when no serial port is connected.
package sim

import (
	"time"

	"github.com/calvinmclean/ardumoto/stepper"
)

// EventKind is the type of pin operation that was recorded
type EventKind int

const (
	EventConfigure EventKind = iota
	EventDigital
	EventAnalog
)

func (k EventKind) String() string {
	switch k {
	case EventConfigure:
		return "Configure"
	case EventDigital:
		return "Digital"
	case EventAnalog:
		return "Analog"
	default:
		return "Unknown"
	}
}

// Event is a single recorded pin operation. Value is the duty for analog writes and 0/1 for digital writes.
type Event struct {
	At    uint32
	Kind  EventKind
	Pin   stepper.Pin
	Value uint8
}

// Frame is the state of the four shield pins after a complete phase pattern was written
type Frame struct {
	At    uint32
	DutyA uint8
	DirA  bool
	DutyB uint8
	DirB  bool
}

// Phase returns the coil phase shown by the frame
func (f Frame) Phase() stepper.Phase {
	return stepper.Phase{DirA: f.DirA, DirB: f.DirB}
}

// Platform is a stepper.Platform backed by memory
type Platform struct {
	clock func() uint32
	// now is the value the fake clock returns next and last is the most recent reading
	now  uint32
	last uint32
	tick uint32

	configured map[stepper.Pin]bool
	levels     map[stepper.Pin]bool
	duty       map[stepper.Pin]uint8

	events []Event
	frames []Frame
}

var _ stepper.Platform = &Platform{}

// New creates a Platform with a fake clock. Every Micros() call returns the current time and then
// advances it by tick, so a busy-wait always makes progress.
func New(tick uint32) *Platform {
	p := newPlatform()
	p.tick = tick
	p.clock = func() uint32 {
		now := p.now
		p.now += p.tick
		return now
	}
	return p
}

// NewRealtime creates a Platform whose clock is the wall time since creation
func NewRealtime() *Platform {
	start := time.Now()
	p := newPlatform()
	p.clock = func() uint32 {
		p.now = uint32(time.Since(start) / time.Microsecond)
		return p.now
	}
	return p
}

func newPlatform() *Platform {
	return &Platform{
		configured: map[stepper.Pin]bool{},
		levels:     map[stepper.Pin]bool{},
		duty:       map[stepper.Pin]uint8{},
	}
}

// ConfigureOutput implements stepper.Platform.
func (p *Platform) ConfigureOutput(pin stepper.Pin) {
	p.configured[pin] = true
	p.events = append(p.events, Event{At: p.last, Kind: EventConfigure, Pin: pin})
}

// DigitalWrite implements stepper.Platform. Writing DirB closes a Frame.
func (p *Platform) DigitalWrite(pin stepper.Pin, high bool) {
	p.levels[pin] = high

	var v uint8
	if high {
		v = 1
	}
	p.events = append(p.events, Event{At: p.last, Kind: EventDigital, Pin: pin, Value: v})

	if pin == stepper.PinDirB {
		p.frames = append(p.frames, Frame{
			At:    p.last,
			DutyA: p.duty[stepper.PinPWMA],
			DirA:  p.levels[stepper.PinDirA],
			DutyB: p.duty[stepper.PinPWMB],
			DirB:  p.levels[stepper.PinDirB],
		})
	}
}

// AnalogWrite implements stepper.Platform.
func (p *Platform) AnalogWrite(pin stepper.Pin, duty uint8) {
	p.duty[pin] = duty
	p.events = append(p.events, Event{At: p.last, Kind: EventAnalog, Pin: pin, Value: duty})
}

// Micros implements stepper.Platform.
func (p *Platform) Micros() uint32 {
	p.last = p.clock()
	return p.last
}

// Set makes the next Micros() call on a fake clock return now. It has no effect on a realtime Platform.
func (p *Platform) Set(now uint32) {
	p.now = now
}

// Advance moves the fake clock forward. It has no effect on a realtime Platform.
func (p *Platform) Advance(d time.Duration) {
	p.now += uint32(d / time.Microsecond)
}

// Now returns the most recent Micros() reading
func (p *Platform) Now() uint32 {
	return p.last
}

func (p *Platform) Configured(pin stepper.Pin) bool {
	return p.configured[pin]
}

func (p *Platform) Level(pin stepper.Pin) bool {
	return p.levels[pin]
}

func (p *Platform) Duty(pin stepper.Pin) uint8 {
	return p.duty[pin]
}

func (p *Platform) Events() []Event {
	return p.events
}

func (p *Platform) Frames() []Frame {
	return p.frames
}

// Reset clears recorded events and frames but keeps pin state and the clock
func (p *Platform) Reset() {
	p.events = nil
	p.frames = nil
}
