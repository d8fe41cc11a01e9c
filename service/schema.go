package service

// Service identifies a connected backend exposed by the data platform.
type Service struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}

// TableSchema describes one table of a service. The platform returns fields
// under "field" and relationship descriptors under "related".
type TableSchema struct {
	Name       string         `json:"name"`
	Label      string         `json:"label,omitempty"`
	PrimaryKey string         `json:"primary_key,omitempty"`
	NameField  string         `json:"name_field,omitempty"`
	Fields     []FieldSchema  `json:"field,omitempty"`
	Related    []Relationship `json:"related,omitempty"`
}

type FieldSchema struct {
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Type     string `json:"type"`
	DbType   string `json:"db_type,omitempty"`
	Length   int    `json:"length,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Relationship describes how a table's records join to another table. The
// literal Name is the only valid value for a query's "related" parameter; it
// cannot be reconstructed from RefTable/RefField.
type Relationship struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // belongs_to, has_many, many_many
	RefTable string `json:"ref_table,omitempty"`
	RefField string `json:"ref_field,omitempty"`
}

// QueryParams are the optional parameters of a table query. Validated by
// presence only; no range checking.
type QueryParams struct {
	Filter        string
	Related       string
	Limit         int
	Offset        int
	Order         string
	Fields        string
	IncludeCount  bool
	IncludeSchema bool
}

type QueryResult struct {
	Resource []map[string]interface{} `json:"resource"`
	Meta     map[string]interface{}   `json:"meta,omitempty"`
}
