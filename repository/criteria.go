package repository

import (
	"strings"

	"github.com/uptrace/bun"
)

// NameContains matches column against %keyword%. An empty keyword matches
// everything.
func NameContains(column, keyword string) SelectCriteria {
	keyword = strings.TrimSpace(keyword)
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if keyword == "" {
			return q
		}
		return q.Where(`? LIKE ? ESCAPE '\'`, bun.Ident(column), "%"+escapeLike(keyword)+"%")
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
