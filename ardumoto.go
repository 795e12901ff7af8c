package ardumoto

const TerminationChar = 0x04 // ascii EOT (End of Transmission)

// Command flags understood by the firmware. Each flag is followed by a fixed-size ASCII input.
const (
	FlagSpeed      byte = 'R' // 3 digits, revolutions per minute
	FlagForward    byte = 'F' // 4 digits, steps
	FlagBackward   byte = 'B' // 4 digits, steps
	FlagRevolution byte = 'W' // '+' or '-'
	FlagVersion    byte = 'V'
	FlagDebug      byte = 'D'
	FlagHelp       byte = 'H'
)

// MaxStepsPerCommand is the largest move that fits in a single forward/backward command
const MaxStepsPerCommand = 9999

// MaxRPM is the largest speed that fits in a single speed command
const MaxRPM = 999
