// Package runlog defines the Run Log / Step Log / Attempt Log / Branch Log
// data model (spec.md §3) and the Store interface that the pipeline
// package's Executor reads and writes through. The Run Log Store
// exclusively owns all logs; mutations always go through a Store
// implementation (see internal/runlog/filestore for the default one).
package runlog

import "time"

// RunStatus is the lifecycle status of a Run Log, Branch Log, or Step Log.
type RunStatus string

const (
	StatusProcessing RunStatus = "PROCESSING"
	StatusSuccess    RunStatus = "SUCCESS"
	StatusFail       RunStatus = "FAIL"
	StatusTriggered  RunStatus = "TRIGGERED"
)

// AttemptStatus is the terminal status of a single Attempt Log.
type AttemptStatus string

const (
	AttemptSuccess AttemptStatus = "SUCCESS"
	AttemptFail    AttemptStatus = "FAIL"
)

// CatalogStage names which phase of catalog synchronization produced a
// CatalogItem.
type CatalogStage string

const (
	CatalogStageGet CatalogStage = "get"
	CatalogStagePut CatalogStage = "put"
)

// AttemptLog records one retry attempt of a task node's execution.
type AttemptLog struct {
	AttemptNumber int           `json:"attempt_number"`
	Status        AttemptStatus `json:"status"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Duration      time.Duration `json:"duration"`
	Message       string        `json:"message,omitempty"`
}

// CatalogItem describes one artifact synced through the Catalog Handler.
type CatalogItem struct {
	Name        string       `json:"name"`
	ContentHash string       `json:"content_hash"`
	Stage       CatalogStage `json:"stage"`
}

// StepLog is the per-node record owned by a Run Log or Branch Log.
type StepLog struct {
	InternalName       string             `json:"internal_name"`
	StepType           string             `json:"step_type"`
	Status             RunStatus          `json:"status"`
	Mock               bool               `json:"mock"`
	Message            string             `json:"message,omitempty"`
	Attempts           []AttemptLog       `json:"attempts,omitempty"`
	UserDefinedMetrics map[string]any     `json:"user_defined_metrics,omitempty"`
	CodeIdentities     []string           `json:"code_identities,omitempty"`
	DataCatalogs       []CatalogItem      `json:"data_catalogs,omitempty"`
	Branches           map[string]*BranchLog `json:"branches,omitempty"`
}

// BranchLog is structurally a Run Log minus run_id/dag_hash: the record of
// one composite-node branch's execution.
type BranchLog struct {
	Status RunStatus           `json:"status"`
	Steps  map[string]*StepLog `json:"steps"`
}

// NewBranchLog creates an empty, PROCESSING Branch Log.
func NewBranchLog() *BranchLog {
	return &BranchLog{Status: StatusProcessing, Steps: map[string]*StepLog{}}
}

// RunLog is the durable record of one pipeline execution.
type RunLog struct {
	RunID          string            `json:"run_id"`
	DagHash        string            `json:"dag_hash"`
	Tag            string            `json:"tag,omitempty"`
	UseCached      bool              `json:"use_cached"`
	OriginalRunID  string            `json:"original_run_id,omitempty"`
	Status         RunStatus         `json:"status"`
	Parameters     map[string]any    `json:"parameters"`
	RunConfig      map[string]any    `json:"run_config,omitempty"`
	Steps          map[string]*StepLog `json:"steps"`
}

// NewRunLog creates an empty, PROCESSING Run Log.
func NewRunLog(runID, dagHash string) *RunLog {
	return &RunLog{
		RunID:      runID,
		DagHash:    dagHash,
		Status:     StatusProcessing,
		Parameters: map[string]any{},
		Steps:      map[string]*StepLog{},
	}
}
