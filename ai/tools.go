package ai

import "fmt"

// FunctionSpec declares one callable tool to the model: a name, a
// description and a JSON-schema parameter object.
type FunctionSpec struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// UnknownToolError means the model requested a tool that was never declared.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("model requested unknown tool %q", e.Name)
}

func objectSchema(required []string, properties map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func boolParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

// Registry returns the declared tools. web_search is only declared when a
// search backend is configured; the model cannot request what is not listed.
func Registry(includeWebSearch bool) []FunctionSpec {
	specs := []FunctionSpec{
		{
			Name:        "list_services",
			Description: "List the data services connected to the platform.",
			Parameters:  objectSchema(nil, map[string]interface{}{}),
		},
		{
			Name:        "list_tables",
			Description: "List the tables of a service.",
			Parameters: objectSchema([]string{"service"}, map[string]interface{}{
				"service": stringParam("Service name from list_services."),
			}),
		},
		{
			Name:        "get_table_schema",
			Description: "Get a table's fields and relationships. Relationship names are the only valid values for the 'related' argument of query tools.",
			Parameters: objectSchema([]string{"service", "table"}, map[string]interface{}{
				"service": stringParam("Service name."),
				"table":   stringParam("Table name from list_tables."),
			}),
		},
		{
			Name:        "query_table",
			Description: "Query a table with an optional filter expression, e.g. (city = 'Boston') or (last_name like 'Do%').",
			Parameters: objectSchema([]string{"service", "table"}, map[string]interface{}{
				"service":        stringParam("Service name."),
				"table":          stringParam("Table name."),
				"filter":         stringParam("SQL-like filter expression."),
				"related":        stringParam("Relationship name to join, from get_table_schema."),
				"limit":          intParam("Maximum records to return."),
				"offset":         intParam("Records to skip."),
				"order":          stringParam("Sort expression, e.g. last_name asc."),
				"fields":         stringParam("Comma-separated fields to return."),
				"include_count":  boolParam("Include the total record count."),
				"include_schema": boolParam("Include the table schema with the result."),
			}),
		},
		{
			Name:        "search_table_by_field",
			Description: "Search a table on one field: exact match or starts-with.",
			Parameters: objectSchema([]string{"service", "table", "field", "value"}, map[string]interface{}{
				"service": stringParam("Service name."),
				"table":   stringParam("Table name."),
				"field":   stringParam("Field to search."),
				"value":   stringParam("Value to match."),
				"exact":   boolParam("Exact match instead of starts-with."),
				"related": stringParam("Relationship name to join."),
			}),
		},
		{
			Name:        "search_by_name",
			Description: "Find people by name. 'Jane Doe' matches first and last name prefixes; a single token matches either.",
			Parameters: objectSchema([]string{"service", "table", "name"}, map[string]interface{}{
				"service":          stringParam("Service name."),
				"table":            stringParam("Table name."),
				"name":             stringParam("Free-text name to look up."),
				"first_name_field": stringParam("First-name field, default first_name."),
				"last_name_field":  stringParam("Last-name field, default last_name."),
				"related":          stringParam("Relationship name to join."),
			}),
		},
		{
			Name:        "search_table",
			Description: "Free-text search over a table's string fields. Best effort: results may include loose matches.",
			Parameters: objectSchema([]string{"service", "table", "phrase"}, map[string]interface{}{
				"service": stringParam("Service name."),
				"table":   stringParam("Table name."),
				"phrase":  stringParam("Search phrase."),
				"related": stringParam("Relationship name to join."),
			}),
		},
	}
	if includeWebSearch {
		specs = append(specs, FunctionSpec{
			Name:        "web_search",
			Description: "Search the web for information not in the data platform.",
			Parameters: objectSchema([]string{"query"}, map[string]interface{}{
				"query": stringParam("Search query."),
			}),
		})
	}
	return specs
}
