package service

import (
	"fmt"
	"strings"
	"unicode"
)

// reservedPrefix marks internal platform tables and fields that are never
// listed or searched.
const reservedPrefix = "_"

// escapeFilterValue doubles single quotes so user input cannot break out of
// the quoted literal.
func escapeFilterValue(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// prefixCondition builds a starts-with match, e.g. (first_name like 'Jane%').
func prefixCondition(field, value string) string {
	return fmt.Sprintf("(%s like '%s%%')", field, escapeFilterValue(value))
}

// equalsCondition builds an exact match, e.g. (city = 'Abbeville').
func equalsCondition(field, value string) string {
	return fmt.Sprintf("(%s = '%s')", field, escapeFilterValue(value))
}

// BuildFieldFilter is the filter for a single-field search: equality when
// exact, prefix match otherwise.
func BuildFieldFilter(field, value string, exact bool) string {
	if exact {
		return equalsCondition(field, value)
	}
	return prefixCondition(field, value)
}

// BuildNameFilter turns a free-text person name into a filter over the two
// name fields. Two or more tokens produce an AND of prefix matches on the
// first and last name fields using the first two tokens; a single token
// produces an OR of prefix matches on both fields.
func BuildNameFilter(firstField, lastField, name string) (string, error) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", fmt.Errorf("name is empty")
	}
	if len(tokens) >= 2 {
		return prefixCondition(firstField, tokens[0]) + " and " + prefixCondition(lastField, tokens[1]), nil
	}
	return prefixCondition(firstField, tokens[0]) + " or " + prefixCondition(lastField, tokens[0]), nil
}

// SearchableFields returns the fields a free-text search may scan:
// string-typed and not reserved-prefixed.
func SearchableFields(fields []FieldSchema) []FieldSchema {
	var out []FieldSchema
	for _, f := range fields {
		if f.Type == "string" && !strings.HasPrefix(f.Name, reservedPrefix) {
			out = append(out, f)
		}
	}
	return out
}

// nameFields returns the candidates whose name or label contains "name".
// This is a heuristic: a schema whose ID-like fields carry "name" in their
// label will be matched too. Callers get best-effort results, not a
// guarantee.
func nameFields(fields []FieldSchema) []FieldSchema {
	var out []FieldSchema
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.Name), "name") ||
			strings.Contains(strings.ToLower(f.Label), "name") {
			out = append(out, f)
		}
	}
	return out
}

// BuildSearchFilter turns a raw search phrase into a filter over a table's
// string fields. With several tokens and at least two name-like fields, the
// first N tokens pair positionally with the first N name fields as an AND of
// prefix matches. Otherwise every token is ORed against every candidate
// field. Correctness is probabilistic: when the schema does not clearly
// expose name fields this degrades to a broad best-effort scan.
func BuildSearchFilter(table string, fields []FieldSchema, phrase string) (string, error) {
	candidates := SearchableFields(fields)
	if len(candidates) == 0 {
		return "", &NoSearchableFieldsError{Table: table}
	}
	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return "", fmt.Errorf("search phrase is empty")
	}

	if len(tokens) > 1 {
		named := nameFields(candidates)
		if len(named) >= 2 {
			n := len(tokens)
			if len(named) < n {
				n = len(named)
			}
			parts := make([]string, 0, n)
			for i := 0; i < n; i++ {
				parts = append(parts, prefixCondition(named[i].Name, tokens[i]))
			}
			return strings.Join(parts, " and "), nil
		}
		var parts []string
		for _, f := range candidates {
			for _, t := range tokens {
				parts = append(parts, prefixCondition(f.Name, t))
			}
		}
		return strings.Join(parts, " or "), nil
	}

	parts := make([]string, 0, len(candidates))
	for _, f := range candidates {
		parts = append(parts, prefixCondition(f.Name, tokens[0]))
	}
	return strings.Join(parts, " or "), nil
}

// NormalizeFilter canonicalizes a filter expression before it is sent:
// whitespace outside quoted literals collapses to single spaces, the
// comparison operators =, !=, >= and <= get one space on each side, and the
// whole expression is wrapped in parentheses unless it already is. Quoted
// literals pass through byte for byte.
func NormalizeFilter(filter string) string {
	runes := []rune(filter)
	var b strings.Builder
	inQuote := false
	pendingSpace := false

	flush := func() {
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if inQuote {
			b.WriteRune(r)
			if r == '\'' {
				inQuote = false
			}
			continue
		}
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		compound := (r == '!' || r == '>' || r == '<') && i+1 < len(runes) && runes[i+1] == '='
		if r == '=' || compound {
			op := string(r)
			if compound {
				op += "="
				i++
			}
			pendingSpace = true
			flush()
			b.WriteString(op)
			pendingSpace = true
			continue
		}
		flush()
		b.WriteRune(r)
		if r == '\'' {
			inQuote = true
		}
	}

	f := b.String()
	if f == "" {
		return ""
	}
	if !isParenthesized(f) {
		f = "(" + f + ")"
	}
	return f
}

// isParenthesized reports whether the expression is fully enclosed by one
// outer pair of parentheses. "(a) and (b)" starts and ends with parens but
// is not enclosed.
func isParenthesized(expr string) bool {
	if !strings.HasPrefix(expr, "(") || !strings.HasSuffix(expr, ")") {
		return false
	}
	depth := 0
	for i, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && i < len(expr)-1 {
			return false
		}
	}
	return depth == 0
}
