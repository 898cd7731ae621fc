package domain

// SetQueryCommand is the payload of a "set_query" websocket command. Filter
// values that are null or blank clear the filter.
type SetQueryCommand struct {
	PageIndex *int               `json:"pageIndex,omitempty"`
	PageSize  *int               `json:"pageSize,omitempty"`
	SortKey   *string            `json:"sortKey,omitempty"`
	SortDir   *string            `json:"sortDir,omitempty"`
	Filters   map[string]*string `json:"filters,omitempty"`
}

// Patch converts the command into a query patch.
func (c SetQueryCommand) Patch() QueryPatch {
	return QueryPatch{
		PageIndex: c.PageIndex,
		PageSize:  c.PageSize,
		SortKey:   c.SortKey,
		SortDir:   c.SortDir,
		Filters:   c.Filters,
	}
}

// RefetchCommand reloads the current page, or PageIndex when given.
type RefetchCommand struct {
	PageIndex *int `json:"pageIndex,omitempty"`
}

// IdentityCommand targets one row.
type IdentityCommand struct {
	ID string `json:"id"`
}

// RowActionCommand selects an action from a row menu.
type RowActionCommand struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// FieldCommand edits one field of the open draft.
type FieldCommand struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FieldsCommand replaces several draft fields at once.
type FieldsCommand struct {
	Fields map[string]string `json:"fields"`
}
