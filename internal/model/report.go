package model

// SkipStage names where an instrument dropped out of a scan.
type SkipStage string

const (
	StageFetch    SkipStage = "fetch"
	StageCompute  SkipStage = "compute"
	StageNoSignal SkipStage = "no_signal"
)

// Skip describes an instrument that produced no result in a scan.
type Skip struct {
	Symbol string    `json:"symbol"`
	Stage  SkipStage `json:"stage"`
	Reason string    `json:"reason"`
}

// ScanReport is the outcome of one full scan cycle.
type ScanReport struct {
	ScanID  string         `json:"-"`
	Results []SignalResult `json:"results"`
	Count   int            `json:"count"`
	Skipped []Skip         `json:"skipped,omitempty"`
}
