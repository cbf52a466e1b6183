package domain

// ProcessStats is a snapshot of the server process resources.
type ProcessStats struct {
	PID        int32
	RSS        uint64
	CPUPercent float64
	Status     PidStatus
}

type PidStatus string

const (
	RUNNING PidStatus = "RUNNING"
	SLEEP   PidStatus = "SLEEP"
	STOP    PidStatus = "STOP"
	IDLE    PidStatus = "IDLE"
	ZOMBIE  PidStatus = "ZOMBIE"
	WAIT    PidStatus = "WAIT"
	LOCK    PidStatus = "LOCK"
	UNKNOWN PidStatus = "UNKNOWN"
)

// ToStatus maps the one letter state reported by the OS.
func ToStatus(status string) PidStatus {
	switch status {
	case "R":
		return RUNNING
	case "S":
		return SLEEP
	case "T":
		return STOP
	case "I":
		return IDLE
	case "Z":
		return ZOMBIE
	case "W":
		return WAIT
	case "L":
		return LOCK
	default:
		return UNKNOWN
	}
}
