package loadtest

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Report constants.
const (
	PercentageMultiplier = 100
)
