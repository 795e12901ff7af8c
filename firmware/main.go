//go:build tinygo

package main

import (
	"machine"

	"github.com/calvinmclean/ardumoto/firmware/commands"
	"github.com/calvinmclean/ardumoto/firmware/device"
)

func main() {
	// Ardumoto on an Arduino Uno: pins 3 and 11 are both driven by Timer2
	shieldCfg := device.ShieldConfig{
		PWM:  machine.Timer2,
		PWMA: machine.D3,
		PWMB: machine.D11,
		DirA: machine.D12,
		DirB: machine.D13,
	}

	motorCfg := device.MotorConfig{
		StepsPerRevolution: 200,
		RPM:                60,
	}

	d, err := device.New(shieldCfg, motorCfg)
	if err != nil {
		panic(err)
	}

	commands.Run(&d)
}
