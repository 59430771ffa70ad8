package domain

// ViewQuery describes one rendering of the dashboard table.
type ViewQuery struct {
	Search   string
	Filters  FilterState
	Sort     SortSpec
	Page     int
	PageSize int
}

// DashboardView is a derived, read-only page of the collection. It is
// recomputed from the current collection on every request.
type DashboardView struct {
	Records    []*Opportunity
	Total      int
	Filtered   int
	Page       int
	PageSize   int
	TotalPages int
	Sort       SortSpec
	Options    FilterOptions
	Status     LoadStatus
}
