package types

// Filter is a parsed list query, for example
//
//	/api/requests?search=pump&sort[created_at]=desc&filter[stage]=NEW,IN_PROGRESS&equipment_id=3&limit=10&page=2
//
// Filter values are kept as strings; repositories match them against a
// whitelist of columns and split comma lists into IN clauses.
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"with_pagination"`
}

// Pagination is returned next to a paged list.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}
