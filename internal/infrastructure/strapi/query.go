package strapi

import (
	"net/url"
	"strconv"
	"strings"
)

// Query construye query strings con la notación de corchetes que entiende Strapi
// (equivalente a qs.stringify con encodeValuesOnly: las claves van literales, los valores escapados).
// Conserva el orden de inserción para que las URLs sean deterministas.
type Query struct {
	pairs [][2]string
}

// NewQuery crea una query vacía.
func NewQuery() *Query {
	return &Query{}
}

// Set agrega key=value.
func (q *Query) Set(key, value string) *Query {
	q.pairs = append(q.pairs, [2]string{key, value})
	return q
}

// Populate agrega populate[i]=rel para cada relación.
func (q *Query) Populate(relations ...string) *Query {
	return q.list("populate", relations)
}

// Sort agrega sort[i]=campo:dir.
func (q *Query) Sort(fields ...string) *Query {
	return q.list("sort", fields)
}

// Filter agrega filters[a][b]...=value. El último segmento suele ser el operador ($eq, $containsi).
func (q *Query) Filter(value string, path ...string) *Query {
	return q.Set("filters"+brackets(path...), value)
}

// Limit agrega pagination[limit]=n.
func (q *Query) Limit(n int) *Query {
	return q.Set("pagination[limit]", strconv.Itoa(n))
}

// Encode serializa la query sin el signo '?'.
func (q *Query) Encode() string {
	var b strings.Builder
	for i, p := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

func (q *Query) list(key string, values []string) *Query {
	for i, v := range values {
		q.Set(key+"["+strconv.Itoa(i)+"]", v)
	}
	return q
}

func brackets(path ...string) string {
	var b strings.Builder
	for _, p := range path {
		b.WriteByte('[')
		b.WriteString(p)
		b.WriteByte(']')
	}
	return b.String()
}
