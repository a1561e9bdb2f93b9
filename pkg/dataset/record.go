package dataset

// Record is the minimum a dataset entry must provide.
type Record interface {
	RecordID() string
}

// Named records take part in GetByName lookups. Records without a name are
// matched on their ID.
type Named interface {
	RecordName() string
}

// Searchable records choose the fields Search matches against. The default
// is the ID and name.
type Searchable interface {
	SearchFields() []string
}

// Filterable records expose fields for Search equality filters.
type Filterable interface {
	FilterValue(field string) (string, bool)
}
