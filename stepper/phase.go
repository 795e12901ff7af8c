package stepper

// MaxDuty is the PWM magnitude applied to both coils on every step
const MaxDuty = 255

// Phase is the polarity of both coils for one position in the 4-step cycle
type Phase struct {
	DirA bool
	DirB bool
}

// 4-step sequence
//
//	Step DIRA DIRB
//	   0    0    0
//	   1    1    0
//	   2    1    1
//	   3    0    1
var phases = [4]Phase{
	{DirA: false, DirB: false},
	{DirA: true, DirB: false},
	{DirA: true, DirB: true},
	{DirA: false, DirB: true},
}

// Pattern returns the coil phase for the given step index. Only index % 4 matters.
func Pattern(index int) Phase {
	return phases[index%4]
}

// emit drives the four shield pins for the step index
func (d *Driver) emit(index int) {
	p := Pattern(index)
	d.platform.AnalogWrite(PinPWMA, MaxDuty)
	d.platform.DigitalWrite(PinDirA, p.DirA)
	d.platform.AnalogWrite(PinPWMB, MaxDuty)
	d.platform.DigitalWrite(PinDirB, p.DirB)
}
