package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNameFilterTwoTokens(t *testing.T) {
	filter, err := BuildNameFilter("first_name", "last_name", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "(first_name like 'Jane%') and (last_name like 'Doe%')", filter)
}

func TestBuildNameFilterSingleToken(t *testing.T) {
	filter, err := BuildNameFilter("first_name", "last_name", "Jane")
	require.NoError(t, err)
	assert.Equal(t, "(first_name like 'Jane%') or (last_name like 'Jane%')", filter)
}

func TestBuildNameFilterExtraTokensIgnored(t *testing.T) {
	filter, err := BuildNameFilter("first_name", "last_name", "Jane Ann Doe")
	require.NoError(t, err)
	// Only the first two tokens participate.
	assert.Equal(t, "(first_name like 'Jane%') and (last_name like 'Ann%')", filter)
}

func TestBuildNameFilterEmpty(t *testing.T) {
	_, err := BuildNameFilter("first_name", "last_name", "   ")
	assert.Error(t, err)
}

func TestBuildFieldFilter(t *testing.T) {
	assert.Equal(t, "(city = 'Boston')", BuildFieldFilter("city", "Boston", true))
	assert.Equal(t, "(city like 'Bos%')", BuildFieldFilter("city", "Bos", false))
	// Single quotes in the value must not break out of the literal.
	assert.Equal(t, "(city = 'O''Fallon')", BuildFieldFilter("city", "O'Fallon", true))
}

func TestBuildSearchFilterTwoTokensWithNameFields(t *testing.T) {
	fields := []FieldSchema{
		{Name: "first_name", Type: "string"},
		{Name: "last_name", Type: "string"},
		{Name: "city", Type: "string"},
		{Name: "age", Type: "integer"},
	}
	filter, err := BuildSearchFilter("contacts", fields, "Jane Doe")
	require.NoError(t, err)
	// AND of exactly 2 prefix conditions, one per name field, in field order.
	assert.Equal(t, "(first_name like 'Jane%') and (last_name like 'Doe%')", filter)
}

func TestBuildSearchFilterNameFieldByLabel(t *testing.T) {
	fields := []FieldSchema{
		{Name: "fn", Label: "First Name", Type: "string"},
		{Name: "ln", Label: "Last Name", Type: "string"},
	}
	filter, err := BuildSearchFilter("contacts", fields, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "(fn like 'Jane%') and (ln like 'Doe%')", filter)
}

func TestBuildSearchFilterMoreTokensThanNameFields(t *testing.T) {
	fields := []FieldSchema{
		{Name: "first_name", Type: "string"},
		{Name: "last_name", Type: "string"},
	}
	filter, err := BuildSearchFilter("contacts", fields, "Jane Ann Doe")
	require.NoError(t, err)
	// N = min(tokens, name fields) = 2.
	assert.Equal(t, "(first_name like 'Jane%') and (last_name like 'Ann%')", filter)
}

func TestBuildSearchFilterSingleTokenORsAllCandidates(t *testing.T) {
	fields := []FieldSchema{
		{Name: "city", Type: "string"},
		{Name: "state", Type: "string"},
		{Name: "country", Type: "string"},
		{Name: "population", Type: "integer"},
	}
	filter, err := BuildSearchFilter("places", fields, "Abbeville")
	require.NoError(t, err)
	parts := strings.Split(filter, " or ")
	assert.Len(t, parts, 3)
	assert.Equal(t, "(city like 'Abbeville%') or (state like 'Abbeville%') or (country like 'Abbeville%')", filter)
}

func TestBuildSearchFilterMultiTokenFallbackOR(t *testing.T) {
	// Only one name-like field, so the positional pairing cannot apply and
	// every token is ORed against every candidate.
	fields := []FieldSchema{
		{Name: "full_name", Type: "string"},
		{Name: "city", Type: "string"},
	}
	filter, err := BuildSearchFilter("contacts", fields, "Jane Doe")
	require.NoError(t, err)
	parts := strings.Split(filter, " or ")
	assert.Len(t, parts, 4) // 2 fields x 2 tokens
}

func TestBuildSearchFilterSkipsReservedAndNonString(t *testing.T) {
	fields := []FieldSchema{
		{Name: "_internal", Type: "string"},
		{Name: "id", Type: "integer"},
	}
	_, err := BuildSearchFilter("contacts", fields, "Jane")
	var noFields *NoSearchableFieldsError
	require.True(t, errors.As(err, &noFields))
	assert.Equal(t, "contacts", noFields.Table)
}

func TestNormalizeFilter(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"city = 'Boston'", "(city = 'Boston')"},
		{"city='Boston'", "(city = 'Boston')"},
		{"  city   =  'Boston'  ", "(city = 'Boston')"},
		{"(city = 'Boston')", "(city = 'Boston')"},
		{"(a = '1') and (b = '2')", "((a = '1') and (b = '2'))"},
		{"a = '1'   and   b = '2'", "(a = '1' and b = '2')"},
		// Compound operators stay atomic.
		{"(age >= 30)", "(age >= 30)"},
		{"(age<=30)", "(age <= 30)"},
		{"(age != 30)", "(age != 30)"},
		{"age!=30", "(age != 30)"},
		// Quoted literals pass through untouched.
		{"(code = 'a=b')", "(code = 'a=b')"},
		{"(city = 'New  York')", "(city = 'New  York')"},
		{"(city = 'O''Fallon')", "(city = 'O''Fallon')"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeFilter(tc.in), "input: %q", tc.in)
	}
}
