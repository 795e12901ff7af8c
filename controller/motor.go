package controller

import (
	"github.com/calvinmclean/ardumoto/stepper"
)

// Motor is a stepper motor that the Controller can drive, either over serial or in-process
type Motor interface {
	SetSpeed(rpm int) error
	Step(steps int) error
	// Revolution turns one full revolution of the motor as the driver knows it
	Revolution(reverse bool) error
	Version() (int, error)
}

// localMotor runs the driver in this process
type localMotor struct {
	driver *stepper.Driver
}

var _ Motor = &localMotor{}

func newLocalMotor(stepsPerRev int, p stepper.Platform) *localMotor {
	return &localMotor{driver: stepper.New(stepsPerRev, p)}
}

// SetSpeed implements Motor. Unlike the driver, it rejects speeds that would panic.
func (m *localMotor) SetSpeed(rpm int) error {
	err := validateSpeed(rpm)
	if err != nil {
		return err
	}
	m.driver.SetSpeed(rpm)
	return nil
}

// Step implements Motor.
func (m *localMotor) Step(steps int) error {
	m.driver.Step(steps)
	return nil
}

// Revolution implements Motor.
func (m *localMotor) Revolution(reverse bool) error {
	n := m.driver.StepsPerRevolution()
	if reverse {
		n = -n
	}
	m.driver.Step(n)
	return nil
}

// Version implements Motor.
func (m *localMotor) Version() (int, error) {
	return m.driver.Version(), nil
}
