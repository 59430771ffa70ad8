package domain

import "time"

// EditState is the lifecycle state of an edit session.
type EditState string

const (
	EditIdle    EditState = "idle"
	EditEditing EditState = "editing"
	EditSaving  EditState = "saving"
	EditSaved   EditState = "saved"
	EditFailed  EditState = "failed"
)

// EditSession is a point-in-time view of an edit session. Seed and Working are
// private copies; neither aliases the record store.
type EditSession struct {
	ID              string
	OpportunityID   string
	Identity        string
	State           EditState
	Seed            *Opportunity
	Working         *Opportunity
	HasChanges      bool
	ChangedFields   []FieldName
	AvailableStages []PipelineStage
	Error           string
	SuccessVisible  bool
	OpenedAt        time.Time
	LastActivity    time.Time
}

// LoadErrorKind distinguishes a failed first load from a failed refresh.
type LoadErrorKind string

const (
	LoadErrorNone    LoadErrorKind = ""
	LoadErrorInitial LoadErrorKind = "initial"
	LoadErrorRefresh LoadErrorKind = "refresh"
)

// LoadStatus describes the record store's last load attempt.
type LoadStatus struct {
	Loaded    bool          `json:"loaded"`
	Loading   bool          `json:"loading"`
	Count     int           `json:"count"`
	LoadedAt  *time.Time    `json:"loadedAt,omitempty"`
	ErrorKind LoadErrorKind `json:"errorKind,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// UpdateResult reports what ApplyUpdates sent and merged.
type UpdateResult struct {
	Record  *Opportunity
	Applied FieldUpdates
	Changed bool
}
