// Package domain holds the values that flow between the gateway, the
// workflow state machine, and the dashboard. Values are treated as immutable
// once constructed.
package domain

// Submission is the research artifact the user selected for analysis.
type Submission struct {
	Name      string // base file name sent with the upload
	Path      string // where it was read from; empty for in-memory submissions
	MediaType string // declared media type, e.g. "application/pdf"
	Content   []byte
}

// Size returns the content length in bytes.
func (s Submission) Size() int {
	return len(s.Content)
}

// SubmissionInfo is the content-free view of a Submission exposed to the
// presentation layer.
type SubmissionInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	MediaType string `json:"mediaType"`
	Size      int    `json:"size"`
}

// Info returns the display metadata for s.
func (s Submission) Info() SubmissionInfo {
	return SubmissionInfo{
		Name:      s.Name,
		Path:      s.Path,
		MediaType: s.MediaType,
		Size:      s.Size(),
	}
}

// StrategyDescriptor is the backend's interpretation of a submission.
// GeneratedAt is displayed, never parsed.
type StrategyDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	GeneratedAt string `json:"generatedAt"`
}

// Sample is one period of the comparative equity series.
type Sample struct {
	Date     string  `json:"date"`
	Strategy float64 `json:"strategy"`
	Market   float64 `json:"market"`
}

// SimulationResult is a backtest of a strategy against the passive
// benchmark. TotalReturn is an opaque, already formatted display string.
type SimulationResult struct {
	Asset       string   `json:"asset"`
	TotalReturn string   `json:"totalReturn"`
	Series      []Sample `json:"series"`
}
