// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package filter provides a typed query layer which maps the external
// query parameters of a listing request to typed predicates.
// Each listable entity has a Schema which enumerates its filterable
// fields explicitly. Parsing a set of query parameters with a Schema
// yields a Query whose predicate values are already converted to their
// Go types (e.g., int64, model.Date, or model.Amount), so the adapter
// layer may compile them into SQL without any further validation.
// Unknown parameters are ignored, but malformed values of the known
// parameters are reported as an Errors map.
package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Kind specifies the type of values which a Field accepts.
type Kind int

// Supported field kinds.
const (
	KindText   Kind = iota // string values, kept as is
	KindInt                // int64 values
	KindDate               // model.Date values, formatted as YYYY-MM-DD
	KindAmount             // model.Amount values, like 5 or 12.50
	KindBool               // bool values, like true or 0
)

// Op specifies how a Field value is compared with its column.
type Op int

// Supported operators.
const (
	OpExact     Op = iota // column = value
	OpIContains           // column ILIKE %value%
	OpGte                 // column >= value
	OpLte                 // column <= value
	OpIsNull              // column IS NULL if value, else IS NOT NULL
	OpAnyOf               // any of values, possibly through a join table
)

// Through describes a many-to-many join table which links the owner
// entity (e.g., a book) to a referenced entity (e.g., an author).
type Through struct {
	Table     string // join table name, e.g. book_authors
	OwnerKey  string // column referencing the owner, e.g. book_id
	TargetKey string // column referencing the target, e.g. author_id
}

// Field maps one query parameter to a typed predicate.
type Field struct {
	Param  string // query parameter name
	Column string // compared column of the listed table
	Kind   Kind
	Op     Op

	// Through is only used by OpAnyOf fields. If it is nil, Column
	// itself is compared with the given values. Otherwise, the listed
	// entity is matched if it is linked to any of the given values by
	// the Through join table.
	Through *Through

	// Parse optionally replaces the default parsing of the Kind.
	// It is useful for enum-like text values.
	Parse func(s string) (any, error)
}

// Related describes the columns of a referenced table which should be
// searched too, e.g., the names of the authors of a book.
type Related struct {
	Through Through
	Table   string   // target table, e.g. authors
	Key     string   // primary key of the target table
	Columns []string // searched columns of the target table
}

// Search lists the columns which are matched by the search parameter.
type Search struct {
	Columns []string
	Related []Related
}

// Schema lists the filterable, searchable, and orderable fields of
// one listable entity.
type Schema struct {
	Table    string
	IDColumn string
	Fields   []Field
	Search   Search
	Ordering []string // orderable columns, addressed by their names
}

// Range returns two fields for the `param`_after and `param`_before
// query parameters, matching the column values which are not before
// and not after the given bounds respectively.
func Range(param, column string, kind Kind) []Field {
	return []Field{
		{Param: param + "_after", Column: column, Kind: kind, Op: OpGte},
		{Param: param + "_before", Column: column, Kind: kind, Op: OpLte},
	}
}

// Bounds returns two fields for the `param`__gte and `param`__lte
// query parameters.
func Bounds(param, column string, kind Kind) []Field {
	return []Field{
		{Param: param + "__gte", Column: column, Kind: kind, Op: OpGte},
		{Param: param + "__lte", Column: column, Kind: kind, Op: OpLte},
	}
}

// Predicate is a parsed Field with its typed value.
// For OpAnyOf fields, Value is a []int64 or []string slice.
type Predicate struct {
	Field Field
	Value any
}

// Order asks to sort the listed records by Column.
type Order struct {
	Column string
	Desc   bool
}

// Query is the parsed and validated form of a listing request.
type Query struct {
	Predicates []Predicate
	Search     string
	Orders     []Order
	Limit      int
	Offset     int
}

// Where appends a predicate to q and returns q for chaining.
// It allows the use cases layer to add constraints which are not
// controlled by the web clients, e.g., listing borrowings of a single
// member.
func (q *Query) Where(f Field, v any) *Query {
	q.Predicates = append(q.Predicates, Predicate{Field: f, Value: v})
	return q
}

// Errors maps the query parameter names to their problems.
type Errors map[string][]string

// Add records msg for the param query parameter.
func (e Errors) Add(param, msg string) {
	e[param] = append(e[param], msg)
}

// Error implements the error interface, listing the parameters in
// their lexicographical order.
func (e Errors) Error() string {
	params := make([]string, 0, len(e))
	for p := range e {
		params = append(params, p)
	}
	sort.Strings(params)
	b := &strings.Builder{}
	for i, p := range params {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", p, strings.Join(e[p], ", "))
	}
	return b.String()
}
