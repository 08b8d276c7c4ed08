package db

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// three-part Unity Catalog name: catalog.schema.index
	indexNameRegex  = regexp.MustCompile(`^[A-Za-z0-9_]+\.[A-Za-z0-9_]+\.[A-Za-z0-9_]+$`)
	identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Param is a named statement parameter, referenced in SQL as :Name.
type Param struct {
	Name  string
	Value any
}

// Statement is a SQL text plus its bound parameters.
type Statement struct {
	SQL    string
	Params []Param
}

// NewStatement creates a statement with named parameters.
func NewStatement(query string, params ...Param) *Statement {
	return &Statement{SQL: query, Params: params}
}

// Args returns the parameters as database/sql named arguments.
func (s *Statement) Args() []any {
	args := make([]any, len(s.Params))
	for i, p := range s.Params {
		args[i] = sql.Named(p.Name, p.Value)
	}
	return args
}

// String returns a debug rendering with every parameter inlined as an escaped literal.
// It is meant for logs and tests and is never sent to the warehouse.
func (s *Statement) String() string {
	if len(s.Params) == 0 {
		return s.SQL
	}
	pairs := make([]string, 0, len(s.Params)*2)
	for _, p := range s.Params {
		pairs = append(pairs, ":"+p.Name, Literal(p.Value))
	}
	return strings.NewReplacer(pairs...).Replace(s.SQL)
}

// Literal renders v as a Databricks SQL literal. Strings are single-quoted with
// quotes doubled and backslashes escaped.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	default:
		return quote(fmt.Sprint(x))
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// VectorSearchBuilder is a fluent builder for vector_search table function calls.
type VectorSearchBuilder struct {
	index      string
	query      string
	numResults int
	columns    []string
}

// NewVectorSearch starts building a vector_search statement over index.
func NewVectorSearch(index string) *VectorSearchBuilder {
	return &VectorSearchBuilder{index: index}
}

// Query sets the free-text query. It is always bound as the :query parameter.
func (b *VectorSearchBuilder) Query(text string) *VectorSearchBuilder {
	b.query = text
	return b
}

// NumResults sets the num_results argument.
func (b *VectorSearchBuilder) NumResults(n int) *VectorSearchBuilder {
	b.numResults = n
	return b
}

// Columns restricts the projection. Without it the statement selects *.
func (b *VectorSearchBuilder) Columns(cols ...string) *VectorSearchBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// Build validates and returns the statement.
func (b *VectorSearchBuilder) Build() (*Statement, error) {
	if !indexNameRegex.MatchString(b.index) {
		return nil, fmt.Errorf("%w: index must be catalog.schema.index, got %q", ErrInvalidStatement, b.index)
	}
	if strings.TrimSpace(b.query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidStatement)
	}
	if b.numResults <= 0 {
		return nil, fmt.Errorf("%w: num_results must be positive, got %d", ErrInvalidStatement, b.numResults)
	}

	projection := "*"
	if len(b.columns) > 0 {
		quoted := make([]string, len(b.columns))
		for i, c := range b.columns {
			if !identifierRegex.MatchString(c) {
				return nil, fmt.Errorf("%w: invalid column name %q", ErrInvalidStatement, c)
			}
			quoted[i] = "`" + c + "`"
		}
		projection = strings.Join(quoted, ", ")
	}

	query := fmt.Sprintf(
		"SELECT %s FROM vector_search(index => %s, query => :query, num_results => %d)",
		projection, quote(b.index), b.numResults,
	)
	return NewStatement(query, Param{Name: "query", Value: b.query}), nil
}
