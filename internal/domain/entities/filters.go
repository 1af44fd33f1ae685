package entities

import (
	"net/url"
	"strconv"
)

// MinSearchLength is the shortest non-empty search term the client will
// transmit. Shorter terms are suppressed before any request is made.
const MinSearchLength = 2

// DefaultLimit is the page size used when none is configured
const DefaultLimit = 10

// TaskFilters is the canonical query state sent to the task service.
// Exactly one value is active at a time; partial changes are merged into
// it, never replacing it wholesale except on an explicit clear.
type TaskFilters struct {
	Completed   *bool     `json:"completed,omitempty"`
	Priority    Priority  `json:"priority,omitempty"`
	Search      string    `json:"search,omitempty"`
	DueDateFrom string    `json:"dueDateFrom,omitempty"`
	DueDateTo   string    `json:"dueDateTo,omitempty"`
	SortBy      SortField `json:"sortBy,omitempty"`
	SortOrder   SortOrder `json:"sortOrder,omitempty"`
	Page        int       `json:"page,omitempty"`
	Limit       int       `json:"limit,omitempty"`
}

// FilterUpdate is a partial change to TaskFilters. Nil fields leave the
// canonical value untouched; a pointer to the zero value clears that field.
type FilterUpdate struct {
	Completed   *bool
	Priority    *Priority
	Search      *string
	DueDateFrom *string
	DueDateTo   *string
	SortBy      *SortField
	SortOrder   *SortOrder
	Page        *int
	Limit       *int
}

// touchesNonPage reports whether the update changes anything besides
// page navigation
func (u FilterUpdate) touchesNonPage() bool {
	return u.Completed != nil || u.Priority != nil || u.Search != nil ||
		u.DueDateFrom != nil || u.DueDateTo != nil ||
		u.SortBy != nil || u.SortOrder != nil || u.Limit != nil
}

// DefaultFilters returns the filter state active before the user touches
// anything: first page, default page size, newest first.
func DefaultFilters() TaskFilters {
	return TaskFilters{
		Page:      1,
		Limit:     DefaultLimit,
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
	}
}

// Merge applies a partial update and returns the resulting filter state.
// Any change other than an explicit page change resets the page to 1, so
// narrowing the result set can never leave the client on an out-of-range
// page.
func (f TaskFilters) Merge(u FilterUpdate) TaskFilters {
	merged := f
	if u.Completed != nil {
		merged.Completed = u.Completed
	}
	if u.Priority != nil {
		merged.Priority = *u.Priority
	}
	if u.Search != nil {
		merged.Search = *u.Search
	}
	if u.DueDateFrom != nil {
		merged.DueDateFrom = *u.DueDateFrom
	}
	if u.DueDateTo != nil {
		merged.DueDateTo = *u.DueDateTo
	}
	if u.SortBy != nil {
		merged.SortBy = *u.SortBy
	}
	if u.SortOrder != nil {
		merged.SortOrder = *u.SortOrder
	}
	if u.Limit != nil {
		merged.Limit = *u.Limit
	}
	switch {
	case u.Page != nil:
		merged.Page = *u.Page
	case u.touchesNonPage():
		merged.Page = 1
	}
	return merged
}

// QueryValues encodes the filters as task service query parameters.
// Only set fields are transmitted; sortBy and sortOrder fall back to
// createdAt/desc when unset.
func (f TaskFilters) QueryValues() url.Values {
	v := url.Values{}
	if f.Completed != nil {
		v.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.Priority != "" {
		v.Set("priority", string(f.Priority))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.DueDateFrom != "" {
		v.Set("dueDateFrom", f.DueDateFrom)
	}
	if f.DueDateTo != "" {
		v.Set("dueDateTo", f.DueDateTo)
	}
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	v.Set("sortBy", string(sortBy))
	sortOrder := f.SortOrder
	if sortOrder == "" {
		sortOrder = SortDesc
	}
	v.Set("sortOrder", string(sortOrder))
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}
