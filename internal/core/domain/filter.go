package domain

// FollowersNone is the sentinel selection meaning "records without followers".
const FollowersNone = "[None]"

// DateRange is an inclusive, optionally open-ended calendar range.
type DateRange struct {
	From *Date
	To   *Date
}

// IsSet reports whether at least one bound is set.
func (r DateRange) IsSet() bool {
	return r.From != nil || r.To != nil
}

// FilterState holds one selection per filterable dimension. An empty selection
// means "no filter" for that dimension.
type FilterState struct {
	AssignedUser      []string
	Pipeline          []string
	PipelineStage     []string
	Stage             []string
	LoanType          []string
	Followers         []string
	ActualClosingDate DateRange
}

// IsEmpty reports whether no dimension is filtered.
func (s FilterState) IsEmpty() bool {
	return len(s.AssignedUser) == 0 &&
		len(s.Pipeline) == 0 &&
		len(s.PipelineStage) == 0 &&
		len(s.Stage) == 0 &&
		len(s.LoanType) == 0 &&
		len(s.Followers) == 0 &&
		!s.ActualClosingDate.IsSet()
}

// FilterOptions lists the selectable values per categorical dimension.
type FilterOptions struct {
	AssignedUsers  []string `json:"assignedUser"`
	Pipelines      []string `json:"pipeline"`
	PipelineStages []string `json:"pipelineStage"`
	Stages         []string `json:"stage"`
	LoanTypes      []string `json:"loan_type"`
	Followers      []string `json:"followers"`
}

// SortDirection is the order of a sorted view.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortDescending {
		return SortAscending
	}
	return SortDescending
}

// SortSpec selects the sort field and direction. An empty Field keeps the filtered order.
type SortSpec struct {
	Field     FieldName
	Direction SortDirection
}

// Select applies header-click semantics: the same field toggles direction,
// a new field starts ascending.
func (s SortSpec) Select(field FieldName) SortSpec {
	if s.Field == field {
		return SortSpec{Field: field, Direction: s.Direction.Toggle()}
	}
	return SortSpec{Field: field, Direction: SortAscending}
}
