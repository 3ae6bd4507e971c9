package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dialect is the placeholder convention of a backing store.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Bind rewrites the named placeholders of q into dialect placeholders and returns the
// driver arguments in matching order. Every declared parameter must be supplied and
// nothing else may be.
func Bind(q Query, dialect Dialect, params map[string]any) (string, []any, error) {
	if dialect != SQLite && dialect != Postgres {
		return "", nil, fmt.Errorf("bind %s: unsupported dialect %q", q.Name, dialect)
	}
	if err := checkParams(q, params); err != nil {
		return "", nil, err
	}

	var (
		b        strings.Builder
		args     []any
		position = map[string]int{}
		src      = q.SQL
		inQuote  bool
	)
	b.Grow(len(src))

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case inQuote || c != ':':
			b.WriteByte(c)
		case i+1 < len(src) && src[i+1] == ':':
			// postgres cast
			b.WriteString("::")
			i++
		default:
			j := i + 1
			for j < len(src) && isIdentByte(src[j]) {
				j++
			}
			if j == i+1 {
				b.WriteByte(c)
				continue
			}
			name := src[i+1 : j]
			value, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("bind %s: placeholder :%s is not a declared parameter", q.Name, name)
			}
			switch dialect {
			case Postgres:
				n, seen := position[name]
				if !seen {
					args = append(args, value)
					n = len(args)
					position[name] = n
				}
				b.WriteString("$" + strconv.Itoa(n))
			default:
				args = append(args, value)
				b.WriteByte('?')
			}
			i = j - 1
		}
	}
	return b.String(), args, nil
}

func checkParams(q Query, params map[string]any) error {
	declared := make(map[string]struct{}, len(q.Params))
	var missing []string
	for _, p := range q.Params {
		declared[p] = struct{}{}
		if _, ok := params[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("bind %s: missing parameters: %s", q.Name, strings.Join(missing, ", "))
	}
	var extra []string
	for p := range params {
		if _, ok := declared[p]; !ok {
			extra = append(extra, p)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("bind %s: unexpected parameters: %s", q.Name, strings.Join(extra, ", "))
	}
	return nil
}

func isIdentByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
