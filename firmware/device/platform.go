//go:build tinygo

package device

import (
	"errors"
	"machine"
	"time"

	"github.com/calvinmclean/ardumoto/stepper"

	"tinygo.org/x/drivers/servo"
)

// Platform implements stepper.Platform on top of tinygo's machine package
type Platform struct {
	pwm      servo.PWM
	pins     map[stepper.Pin]machine.Pin
	channels map[stepper.Pin]uint8
	start    time.Time
}

var _ stepper.Platform = &Platform{}

// NewPlatform configures the PWM peripheral for the shield
func NewPlatform(cfg ShieldConfig) (*Platform, error) {
	if cfg.PWM == nil {
		return nil, errors.New("missing PWM peripheral")
	}

	err := cfg.PWM.Configure(machine.PWMConfig{Period: cfg.PWMPeriod})
	if err != nil {
		return nil, errors.New("error configuring PWM: " + err.Error())
	}

	return &Platform{
		pwm: cfg.PWM,
		pins: map[stepper.Pin]machine.Pin{
			stepper.PinPWMA: cfg.PWMA,
			stepper.PinPWMB: cfg.PWMB,
			stepper.PinDirA: cfg.DirA,
			stepper.PinDirB: cfg.DirB,
		},
		channels: map[stepper.Pin]uint8{},
		start:    time.Now(),
	}, nil
}

// ConfigureOutput implements stepper.Platform. Magnitude pins are attached to a PWM channel instead of
// being configured as plain outputs.
func (p *Platform) ConfigureOutput(pin stepper.Pin) {
	mp, ok := p.pins[pin]
	if !ok {
		println("unknown pin", uint8(pin))
		return
	}

	if pin != stepper.PinPWMA && pin != stepper.PinPWMB {
		mp.Configure(machine.PinConfig{Mode: machine.PinOutput})
		return
	}

	ch, err := p.pwm.Channel(mp)
	if err != nil {
		println("error attaching PWM channel:", err.Error())
		return
	}
	p.channels[pin] = ch
}

// DigitalWrite implements stepper.Platform.
func (p *Platform) DigitalWrite(pin stepper.Pin, high bool) {
	p.pins[pin].Set(high)
}

// AnalogWrite implements stepper.Platform. The duty is scaled from 0-255 to the PWM's Top.
func (p *Platform) AnalogWrite(pin stepper.Pin, duty uint8) {
	ch, ok := p.channels[pin]
	if !ok {
		return
	}
	p.pwm.Set(ch, uint32(uint64(duty)*uint64(p.pwm.Top())/255))
}

// Micros implements stepper.Platform.
func (p *Platform) Micros() uint32 {
	return uint32(time.Since(p.start) / time.Microsecond)
}
