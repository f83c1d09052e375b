package domain

// TimerState is ephemeral per-board countdown state. It lives in
// memory only and does not survive a process restart.
type TimerState struct {
	IsRunning        bool `json:"isRunning"`
	RemainingSeconds int  `json:"remainingSeconds"`
	TotalSeconds     int  `json:"totalSeconds"`
}
