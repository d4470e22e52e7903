// Package core holds template helpers shared by every page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"formatNumber": formatNumberTemplate,
		"metric":       FormatMetric,
		"cell":         FormatCell,
		"columns":      Columns,
		"humanize":     Humanize,
		"truncateText": TruncateText,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped above.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// FormatMetric renders a headline number decoded from JSON. Whole numbers get
// thousands separators, fractions one decimal, and a missing value a dash.
func FormatMetric(v any) string {
	switch x := v.(type) {
	case nil:
		return "—"
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return formatNumberTemplate(int64(x))
		}
		return strconv.FormatFloat(x, 'f', 1, 64)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return formatNumberTemplate(i)
		}
		return x.String()
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return FormatMetric(f)
		}
		return x
	default:
		return formatNumberTemplate(v)
	}
}

// FormatCell renders one value of a list row.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case float64:
		return FormatMetric(x)
	case string:
		return x
	case map[string]any:
		for _, k := range []string{"name", "title", "username", "id"} {
			if s, ok := x[k]; ok {
				return FormatCell(s)
			}
		}
		return ""
	case []any:
		return strconv.Itoa(len(x)) + " items"
	default:
		return fmt.Sprint(x)
	}
}

// Columns lists the keys of the first row, id first and the rest sorted, so
// every row of a page lines up.
func Columns(rows []map[string]any) []string {
	if len(rows) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rows[0]))
	hasID := false
	for k := range rows[0] {
		if k == "id" {
			hasID = true
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if hasID {
		keys = append([]string{"id"}, keys...)
	}
	return keys
}

// Humanize turns an API field or slug ("market-prices", "total_beds") into a label.
func Humanize(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	if s == "" {
		return s
	}
	if s == "id" {
		return "ID"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatNumberTemplate formats any integer type with comma separators for thousands.
func formatNumberTemplate(v any) string {
	var s string
	var neg bool

	switch x := v.(type) {
	case int:
		s, neg = formatInt64(int64(x))
	case int64:
		s, neg = formatInt64(x)
	case int32:
		s, neg = formatInt64(int64(x))
	case uint:
		s = strconv.FormatUint(uint64(x), 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	case uint32:
		s = strconv.FormatUint(uint64(x), 10)
	default:
		return fmt.Sprint(v)
	}

	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	return formatWithCommas(s, neg)
}

func formatInt64(x int64) (string, bool) {
	if x < 0 {
		return strconv.FormatUint(uint64(-x), 10), true
	}
	return strconv.FormatUint(uint64(x), 10), false
}

func formatWithCommas(s string, neg bool) string {
	var b strings.Builder
	b.Grow(len(s) + (len(s)-1)/3)

	prefix := len(s) % 3
	if prefix == 0 {
		prefix = 3
	}

	b.WriteString(s[:prefix])
	for i := prefix; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > 1 {
		return string(runes[:maxLen-1]) + "…"
	}
	return string(runes[:1])
}
