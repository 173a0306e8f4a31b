package introspect

// Table is one entry of the table catalog.
type Table struct {
	Name string `json:"table_name"`
}

// Column describes a table column. Generated columns (identity, serial,
// computed) are filled in by the store and may be left out of writes.
type Column struct {
	Name      string  `json:"column_name"`
	Type      string  `json:"data_type"`
	Default   *string `json:"column_default"`
	Generated bool    `json:"is_generated"`
	Nullable  bool    `json:"is_nullable"`
	PK        bool    `json:"is_primary_key"`
}
