// Package listquery turns untrusted list parameters (q, tri-state filters,
// ordering, page) into gorm scopes over normalized shadow columns.
package listquery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"backoffice/internal/textnorm"
)

const (
	ParamSearch   = "q"
	ParamOrdering = "ordering"
	ParamPage     = "page"

	// descPrefix marks a descending sort key, e.g. "-name".
	descPrefix = "-"
)

// TriState is a boolean filter that can also be left unset.
type TriState int

const (
	Unset TriState = iota
	True
	False
)

// ParseTriState accepts true/True/1 and false/False/0; anything else is Unset.
func ParseTriState(s string) TriState {
	switch strings.TrimSpace(s) {
	case "true", "True", "1":
		return True
	case "false", "False", "0":
		return False
	default:
		return Unset
	}
}

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return ""
	}
}

// Spec declares, per entity, which columns are searched, filtered and sortable.
// Column names are trusted SQL identifiers; only keys come from the request.
type Spec struct {
	// Search holds normalized columns matched by substring against q.
	Search []string
	// Filters maps a query parameter to a boolean column.
	Filters map[string]string
	// Sorts is the allow-list of sort keys and their columns.
	Sorts map[string]string
	// Default is the sort key used when none or an unknown one is requested.
	// It may carry the descending prefix.
	Default string
	// IDColumn breaks ties so descending order is the exact reverse of ascending.
	IDColumn string
}

// Order is a resolved, allow-listed sort.
type Order struct {
	Key    string
	Column string
	Desc   bool
}

// Query is a parsed list request.
type Query struct {
	Term    string
	Filters map[string]TriState
	Order   Order
	Page    int

	// CurrentOrder is the ordering value exactly as received.
	CurrentOrder string
	// QueryString is the request query without page.
	QueryString string
	// QueryStringNoOrdering is the request query without page and ordering.
	QueryStringNoOrdering string

	spec Spec
}

// Parse never fails: bad values degrade to no search, unset filters,
// the default order and page 1.
func (s Spec) Parse(values url.Values) Query {
	q := Query{
		Term:         textnorm.Normalize(strings.TrimSpace(values.Get(ParamSearch))),
		Filters:      make(map[string]TriState, len(s.Filters)),
		CurrentOrder: values.Get(ParamOrdering),
		Page:         1,
		spec:         s,
	}

	for name := range s.Filters {
		q.Filters[name] = ParseTriState(values.Get(name))
	}

	q.Order = s.resolveOrder(q.CurrentOrder)

	if p, err := strconv.Atoi(values.Get(ParamPage)); err == nil && p > 0 {
		q.Page = p
	}

	q.QueryString = encodeWithout(values, ParamPage)
	q.QueryStringNoOrdering = encodeWithout(values, ParamPage, ParamOrdering)
	return q
}

func (s Spec) resolveOrder(requested string) Order {
	desc := strings.HasPrefix(requested, descPrefix)
	key := strings.TrimPrefix(requested, descPrefix)
	if col, ok := s.Sorts[key]; ok && key != "" {
		return Order{Key: key, Column: col, Desc: desc}
	}

	desc = strings.HasPrefix(s.Default, descPrefix)
	key = strings.TrimPrefix(s.Default, descPrefix)
	return Order{Key: key, Column: s.Sorts[key], Desc: desc}
}

func encodeWithout(values url.Values, drop ...string) string {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, k := range drop {
		out.Del(k)
	}
	return out.Encode()
}

// Where applies search and filters. It is safe to use for counting.
func (q Query) Where(db *gorm.DB) *gorm.DB {
	if q.Term != "" && len(q.spec.Search) > 0 {
		pattern := "%" + EscapeLike(q.Term) + "%"
		conds := make([]string, len(q.spec.Search))
		args := make([]any, len(q.spec.Search))
		for i, col := range q.spec.Search {
			conds[i] = col + ` LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	for name, col := range q.spec.Filters {
		switch q.Filters[name] {
		case True:
			db = db.Where(col+" = ?", true)
		case False:
			db = db.Where(col+" = ?", false)
		}
	}
	return db
}

// OrderBy applies the resolved order plus the id tiebreaker.
func (q Query) OrderBy(db *gorm.DB) *gorm.DB {
	dir := "ASC"
	if q.Order.Desc {
		dir = "DESC"
	}
	if q.Order.Column != "" {
		db = db.Order(fmt.Sprintf("%s %s", q.Order.Column, dir))
	}
	if q.spec.IDColumn != "" {
		db = db.Order(fmt.Sprintf("%s %s", q.spec.IDColumn, dir))
	}
	return db
}

// Scope applies Where and OrderBy.
func (q Query) Scope(db *gorm.DB) *gorm.DB {
	return q.OrderBy(q.Where(db))
}

// EscapeLike escapes LIKE wildcards so the term matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
