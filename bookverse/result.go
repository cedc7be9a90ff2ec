package bookverse

// Outcome classifies the end of a user action.
type Outcome int

const (
	Ok Outcome = iota
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is what a user action reports back to the UI layer, which decides how
// to present it.
type Result struct {
	Outcome Outcome
	Message string
	Err     error
}

func okResult(msg string) Result { return Result{Outcome: Ok, Message: msg} }

func cancelledResult() Result { return Result{Outcome: Cancelled} }

func failedResult(msg string, err error) Result {
	return Result{Outcome: Failed, Message: msg, Err: err}
}

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool
