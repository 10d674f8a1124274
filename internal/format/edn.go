package format

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes the json-shaped value of v as EDN. Object keys become
// keywords; keys are sorted so output is stable.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	e := ednWriter{pretty: pretty}
	e.value(x, 0)
	e.sb.WriteByte('\n')
	_, err = io.WriteString(w, e.sb.String())
	return err
}

type ednWriter struct {
	sb     strings.Builder
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.sb.WriteString("nil")
	case bool:
		e.sb.WriteString(strconv.FormatBool(t))
	case string:
		e.sb.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.sb.WriteString(strconv.FormatInt(int64(t), 10))
			return
		}
		e.sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		e.seq('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), depth, func(i int) {
			e.sb.WriteString(keyword(keys[i]))
			e.sb.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	default:
		e.sb.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// seq writes n entries between open and close, one per line when pretty.
func (e *ednWriter) seq(open, close byte, n, depth int, entry func(int)) {
	e.sb.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.sb.WriteByte('\n')
			e.sb.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.sb.WriteByte(' ')
		}
		entry(i)
	}
	if e.pretty && n > 0 {
		e.sb.WriteByte('\n')
		e.sb.WriteString(strings.Repeat("  ", depth))
	}
	e.sb.WriteByte(close)
}

func keyword(k string) string {
	k = strings.TrimSpace(k)
	k = strings.NewReplacer(" ", "-", "_", "-").Replace(k)
	return ":" + k
}
