package cache

// Keyer derives cache keys for the entries taskwave stores.
type Keyer interface {
	// ReportKey returns the key of the analysis report for a graph
	// fingerprint computed with the given options.
	ReportKey(fingerprint string, opts ReportKeyOpts) string

	// ArtifactKey returns the key of a rendered artifact of a report.
	ArtifactKey(fingerprint string, opts ArtifactKeyOpts) string
}

// ReportKeyOpts holds the analysis options that change a report without
// changing the graph fingerprint.
type ReportKeyOpts struct {
	ConflictPenalty int `json:"conflict_penalty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format          string `json:"format"`
	ConflictPenalty int    `json:"conflict_penalty"`
	ShowWaves       bool   `json:"show_waves"`
	Detailed        bool   `json:"detailed"`
}

// DefaultKeyer builds keys as "<kind>:<hash of inputs>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey implements [Keyer].
func (DefaultKeyer) ReportKey(fingerprint string, opts ReportKeyOpts) string {
	return hashKey("report", fingerprint, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(fingerprint string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", fingerprint, opts)
}

var _ Keyer = DefaultKeyer{}
