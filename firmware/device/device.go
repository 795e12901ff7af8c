//go:build tinygo

package device

import (
	"errors"
	"machine"
	"strconv"

	"github.com/calvinmclean/ardumoto/stepper"
)

// Device owns the stepper driver and the serial console. It implements commands.Controller.
type Device struct {
	driver *stepper.Driver
	rpm    uint
}

// New initializes the shield and the driver with the provided configs
func New(shieldCfg ShieldConfig, motorCfg MotorConfig) (Device, error) {
	if motorCfg.StepsPerRevolution <= 0 {
		return Device{}, errors.New("steps per revolution must be > 0")
	}
	if motorCfg.RPM == 0 {
		return Device{}, errors.New("rpm must be > 0")
	}

	platform, err := NewPlatform(shieldCfg)
	if err != nil {
		return Device{}, errors.New("error creating platform: " + err.Error())
	}

	d := Device{driver: stepper.New(motorCfg.StepsPerRevolution, platform)}
	d.SetSpeed(motorCfg.RPM)

	return d, nil
}

// SetSpeed sets the motor speed in RPM
func (d *Device) SetSpeed(rpm uint) {
	d.driver.SetSpeed(int(rpm))
	d.rpm = rpm
}

// Step moves the motor and blocks until the move is done
func (d *Device) Step(n int32) {
	// int is 16 bits on AVR
	if int32(int(n)) != n {
		println("error: step count out of range")
		return
	}
	d.driver.Step(int(n))
}

// Revolution turns the motor one full revolution
func (d *Device) Revolution(reverse bool) {
	n := d.driver.StepsPerRevolution()
	if reverse {
		n = -n
	}
	d.driver.Step(n)
}

func (d *Device) Version() int {
	return d.driver.Version()
}

// Debug prints out details of the Device's state
func (d *Device) Debug() {
	s := "position=" + strconv.Itoa(d.driver.Position()) + "/" + strconv.Itoa(d.driver.StepsPerRevolution())
	s += " direction=" + d.driver.Direction().String()
	s += " rpm=" + strconv.FormatUint(uint64(d.rpm), 10)
	s += " delay=" + d.driver.StepDelay().String()
	println(s)
}

func (d *Device) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}

func (d *Device) WriteByte(b byte) error {
	return machine.Serial.WriteByte(b)
}
