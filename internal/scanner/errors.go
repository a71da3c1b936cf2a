package scanner

import "fmt"

// Stage identifies the pipeline step a failure happened in.
type Stage string

const (
	StageUniverse Stage = "universe"
	StageFetch    Stage = "fetch"
	StageCompute  Stage = "compute"
	StageNotify   Stage = "notify"
	StageLog      Stage = "log"
)

// StageError is a failure tagged with its stage and, for per-instrument stages,
// the instrument symbol.
type StageError struct {
	Symbol string
	Stage  Stage
	Err    error
}

func (e *StageError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Symbol, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
