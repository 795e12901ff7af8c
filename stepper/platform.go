package stepper

// Pin identifies an output on the host platform
type Pin uint8

// Fixed pin assignments of the Ardumoto shield
const (
	PinPWMA Pin = 3
	PinPWMB Pin = 11
	PinDirA Pin = 12
	PinDirB Pin = 13
)

// Pins lists the shield outputs in the order they are configured
var Pins = [4]Pin{PinPWMA, PinPWMB, PinDirA, PinDirB}

func (p Pin) String() string {
	switch p {
	case PinPWMA:
		return "PWMA"
	case PinPWMB:
		return "PWMB"
	case PinDirA:
		return "DIRA"
	case PinDirB:
		return "DIRB"
	default:
		return "Unknown"
	}
}

// Platform is the set of pin and clock services the Driver needs from the board it runs on
type Platform interface {
	// ConfigureOutput puts the pin in output mode
	ConfigureOutput(Pin)
	// DigitalWrite drives the pin high or low
	DigitalWrite(pin Pin, high bool)
	// AnalogWrite sets the PWM duty cycle of the pin, 0-255
	AnalogWrite(pin Pin, duty uint8)
	// Micros returns a free-running microsecond counter. It is allowed to wrap.
	Micros() uint32
}
