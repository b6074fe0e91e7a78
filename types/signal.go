package types

// Flag is a tri-state signal column value. An unset flag means the
// condition list for that side was empty; callers treat it as "no signal".
type Flag int8

const (
	FlagUnset Flag = iota
	FlagFalse
	FlagTrue
)

// Active reports whether the flag asks the engine to act.
func (f Flag) Active() bool { return f == FlagTrue }

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unset"
	}
}

// Decision is the evaluator output for one bar.
type Decision struct {
	Enter Flag
	Exit  Flag
}

// ExitReason records which check produced an exit.
type ExitReason string

const (
	ExitTrailingStop ExitReason = "trailing_stop"
	ExitTimeLimit    ExitReason = "time_exit"
	ExitProfitTaking ExitReason = "profit_taking"
	ExitROI          ExitReason = "roi"
	ExitStopLoss     ExitReason = "stop_loss"
	ExitSignal       ExitReason = "exit_signal"
	ExitForce        ExitReason = "force_exit"
)

// Exit is an advisory exit suggested by a guard.
type Exit struct {
	Price  float64
	Reason ExitReason
}
