package database

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a fluent, type-safe API for building database queries
type QueryBuilder[T any] struct {
	db bun.IDB

	// Query clauses
	selectCols  []string
	wheres      []*WhereClause
	whereGroups []*WhereGroup
	orders      []*OrderClause
	limitVal    *int

	// Relations to load alongside the model
	relations []*RelationClause

	// Options
	retry bool

	// Timeout
	timeout time.Duration
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
}

// WhereGroup represents a grouped WHERE condition (for OR/AND grouping)
type WhereGroup struct {
	Conditions []*WhereClause
	Connector  string // "AND" or "OR"
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// RelationClause names a bun relation and optional adjustments to its query
type RelationClause struct {
	Name  string
	Apply []func(*bun.SelectQuery) *bun.SelectQuery
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// WhereGroupBuilder provides a fluent API for building grouped WHERE clauses
type WhereGroupBuilder[T any] struct {
	parent *QueryBuilder[T]
	group  *WhereGroup
}

// Query creates a new QueryBuilder instance. db may be the pool or a transaction;
// queries inside a transaction are never retried.
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	_, inTx := db.(bun.Tx)
	if dbw, ok := db.(*DB); ok {
		db = dbw.DB
	}

	return &QueryBuilder[T]{
		db:    db,
		retry: !inTx,
	}
}

// Select specifies the columns to select, or the columns to write on Update with a model
func (q *QueryBuilder[T]) Select(columns ...string) *QueryBuilder[T] {
	q.selectCols = append(q.selectCols, columns...)
	return q
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereIn adds a WHERE IN condition
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IN",
		Value:    bun.In(values),
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// WhereGroup starts building a grouped WHERE clause
func (q *QueryBuilder[T]) WhereGroup(connector string) *WhereGroupBuilder[T] {
	return &WhereGroupBuilder[T]{
		parent: q,
		group:  &WhereGroup{Connector: connector},
	}
}

// Or starts an OR group
func (q *QueryBuilder[T]) Or() *WhereGroupBuilder[T] {
	return q.WhereGroup("OR")
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: string(direction),
	})
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Relation loads a bun relation declared on the model, e.g. "SubCategory.Category"
func (q *QueryBuilder[T]) Relation(name string, apply ...func(*bun.SelectQuery) *bun.SelectQuery) *QueryBuilder[T] {
	q.relations = append(q.relations, &RelationClause{Name: name, Apply: apply})
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// String renders the select statement without running it
func (q *QueryBuilder[T]) String() string {
	return q.buildSelect((*T)(nil)).String()
}

// WhereGroupBuilder methods

// Where adds a condition to the group
func (w *WhereGroupBuilder[T]) Where(column string, value any) *WhereGroupBuilder[T] {
	return w.WhereOp(column, "=", value)
}

// WhereOp adds a condition with an operator to the group
func (w *WhereGroupBuilder[T]) WhereOp(column, operator string, value any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return w
}

// WhereRaw adds a raw condition to the group
func (w *WhereGroupBuilder[T]) WhereRaw(sql string, args ...any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return w
}

// End completes the group builder and returns to the query builder
func (w *WhereGroupBuilder[T]) End() *QueryBuilder[T] {
	w.parent.whereGroups = append(w.parent.whereGroups, w.group)
	return w.parent
}

// columnExpr qualifies bare column names with the model alias. Anything already
// qualified or containing an expression is passed through untouched.
func columnExpr(column string) (string, []any) {
	if strings.ContainsAny(column, ".( ") {
		return column, nil
	}
	return "?TableAlias.?", []any{bun.Ident(column)}
}

// toSQL renders a single condition as a bun query fragment
func (w *WhereClause) toSQL() (string, []any) {
	if w.IsRaw {
		return w.RawSQL, w.RawArgs
	}

	col, args := columnExpr(w.Column)

	var sql string
	switch w.Operator {
	case "IN":
		sql = col + " IN (?)"
		args = append(args, w.Value)
	default:
		sql = col + " " + w.Operator + " ?"
		args = append(args, w.Value)
	}

	return sql, args
}

// toSQL renders the group as a single parenthesized fragment
func (g *WhereGroup) toSQL() (string, []any, bool) {
	if len(g.Conditions) == 0 {
		return "", nil, false
	}

	parts := make([]string, 0, len(g.Conditions))
	var args []any
	for _, cond := range g.Conditions {
		sql, condArgs := cond.toSQL()
		parts = append(parts, sql)
		args = append(args, condArgs...)
	}

	return "(" + strings.Join(parts, " "+g.Connector+" ") + ")", args, true
}

type condition struct {
	sql  string
	args []any
}

// conditions flattens wheres and groups into the fragments every query type applies
func (q *QueryBuilder[T]) conditions() []condition {
	out := make([]condition, 0, len(q.wheres)+len(q.whereGroups))
	for _, w := range q.wheres {
		sql, args := w.toSQL()
		out = append(out, condition{sql: sql, args: args})
	}
	for _, g := range q.whereGroups {
		if sql, args, ok := g.toSQL(); ok {
			out = append(out, condition{sql: sql, args: args})
		}
	}
	return out
}

// buildSelect builds the select query against the given destination model
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	if len(q.selectCols) > 0 {
		query = query.Column(q.selectCols...)
	}

	for _, rel := range q.relations {
		query = query.Relation(rel.Name, rel.Apply...)
	}

	for _, c := range q.conditions() {
		query = query.Where(c.sql, c.args...)
	}

	for _, order := range q.orders {
		col, args := columnExpr(order.Column)
		query = query.OrderExpr(col+" "+order.Direction, args...)
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}

	return query
}

func (q *QueryBuilder[T]) buildUpdate() *bun.UpdateQuery {
	query := q.db.NewUpdate().Model((*T)(nil))
	for _, c := range q.conditions() {
		query = query.Where(c.sql, c.args...)
	}
	return query
}

func (q *QueryBuilder[T]) buildDelete() *bun.DeleteQuery {
	query := q.db.NewDelete().Model((*T)(nil))
	for _, c := range q.conditions() {
		query = query.Where(c.sql, c.args...)
	}
	return query
}
