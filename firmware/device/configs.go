//go:build tinygo

package device

import (
	"machine"

	"tinygo.org/x/drivers/servo"
)

// ShieldConfig maps the shield's magnitude and direction outputs to board pins
type ShieldConfig struct {
	// PWM is the peripheral that drives both magnitude pins
	PWM servo.PWM
	// PWMPeriod is the PWM period in nanoseconds. Zero uses the peripheral's default.
	PWMPeriod uint64

	PWMA, PWMB machine.Pin
	DirA, DirB machine.Pin
}

// MotorConfig has values that depend on the motor that is connected
type MotorConfig struct {
	StepsPerRevolution int
	RPM                uint
}
