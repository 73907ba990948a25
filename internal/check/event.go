// Package check implements the schema check validation pipeline: inbound
// event authentication, subgraph diffing, rule evaluation against SDL source
// text, and aggregation of violations into a reported verdict.
//
// All types in this package are created fresh per inbound event and discarded
// after the orchestrator callback completes; nothing is shared between
// concurrent requests.
package check

// ViolationLevel is the severity of a reported rule failure.
type ViolationLevel string

const (
	LevelError   ViolationLevel = "ERROR"
	LevelWarning ViolationLevel = "WARNING"
)

// CheckStatus is the final verdict of one schema check.
type CheckStatus string

const (
	StatusSuccess CheckStatus = "SUCCESS"
	StatusFailure CheckStatus = "FAILURE"
)

// SubgraphRef identifies one subgraph within a schema by name and content
// hash. The name is the stable identity key across base/proposed; the hash is
// an opaque fingerprint compared for equality only.
type SubgraphRef struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// SchemaRef describes one side (base or proposed) of a schema change.
// Subgraphs may be absent for non-federated graphs.
type SchemaRef struct {
	Hash      string        `json:"hash"`
	Subgraphs []SubgraphRef `json:"subgraphs,omitempty"`
}

// GitContext carries the VCS metadata attached to the inbound event. It is
// echoed through for reporting and never interpreted by the pipeline.
type GitContext struct {
	Branch    string `json:"branch,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Committer string `json:"committer,omitempty"`
	Message   string `json:"message,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// CheckEvent is the inbound webhook payload describing a proposed schema
// change awaiting validation. Immutable, one per request.
type CheckEvent struct {
	TaskID         string     `json:"taskId"`
	GraphID        string     `json:"graphId"`
	GraphVariant   string     `json:"graphVariant"`
	WorkflowID     string     `json:"workflowId"`
	BaseSchema     SchemaRef  `json:"baseSchema"`
	ProposedSchema SchemaRef  `json:"proposedSchema"`
	GitContext     GitContext `json:"gitContext,omitempty"`
}

// SourceDocument is one resolved schema source, keyed by content hash. The
// pipeline holds documents in a transient lookup table for the duration of a
// single request.
type SourceDocument struct {
	Hash string `json:"hash"`
	Text string `json:"source"`
}

// Coordinate is a position in a source text. Line and Column are 1-based;
// ByteOffset is the 0-based count of bytes preceding the position in the
// associated document. Offsets are only meaningful against the document they
// were computed from.
type Coordinate struct {
	Line       int `json:"line"`
	Column     int `json:"column"`
	ByteOffset int `json:"byteOffset"`
}

// SourceLocation pins a violation to a span inside one subgraph's source.
// End equals Start when no end position is available.
type SourceLocation struct {
	SubgraphName string     `json:"subgraphName"`
	Start        Coordinate `json:"start"`
	End          Coordinate `json:"end"`
}

// Violation is one reported rule failure.
type Violation struct {
	Level           ViolationLevel   `json:"level"`
	Message         string           `json:"message"`
	Rule            string           `json:"rule"`
	SourceLocations []SourceLocation `json:"sourceLocations,omitempty"`
}

// CheckResult is the aggregated verdict reported back to the orchestrator.
// Status is FAILURE iff at least one violation is at LevelError.
type CheckResult struct {
	TaskID     string      `json:"taskId"`
	WorkflowID string      `json:"workflowId"`
	Status     CheckStatus `json:"status"`
	Violations []Violation `json:"violations"`
}
