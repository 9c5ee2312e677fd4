// Package frontmatter splits markdown documents into a YAML metadata block
// and a body, and validates the metadata posts rely on.
//
// A block is recognized only at the very start of the text:
//
//	---
//	title: "My Post"
//	tags: [go, web]
//	---
//	Body text
//
// Anything that does not parse cleanly is treated as plain content.
package frontmatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Document is the result of Parse.
type Document struct {
	Data     map[string]any
	Body     string
	HasBlock bool
}

// Parse extracts the leading metadata block from text. When there is no block,
// or the block is not a valid YAML mapping, Data is empty and Body is the
// input unchanged.
func Parse(text string) Document {
	doc := Document{Data: map[string]any{}, Body: text}

	firstEnd := strings.IndexByte(text, '\n')
	if firstEnd < 0 || strings.TrimRight(text[:firstEnd], "\r") != delimiter {
		return doc
	}

	pos := firstEnd + 1
	for pos <= len(text) {
		var line string
		next := len(text)
		end := strings.IndexByte(text[pos:], '\n')
		if end < 0 {
			line = text[pos:]
		} else {
			line = text[pos : pos+end]
			next = pos + end + 1
		}
		if strings.TrimRight(line, "\r") == delimiter {
			data, ok := decode(text[firstEnd+1 : pos])
			if !ok {
				return doc
			}
			return Document{Data: data, Body: text[next:], HasBlock: true}
		}
		if end < 0 {
			break
		}
		pos = next
	}
	return doc
}

func decode(raw string) (map[string]any, bool) {
	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false
	}
	if data == nil {
		data = map[string]any{}
	}
	for k, v := range data {
		data[k] = normalize(v)
	}
	return data, true
}

// normalize turns sequences made only of strings into []string so callers and
// round trips see the same type they wrote.
func normalize(v any) any {
	switch val := v.(type) {
	case []any:
		strs := make([]string, 0, len(val))
		for i, item := range val {
			val[i] = normalize(item)
			if s, ok := val[i].(string); ok {
				strs = append(strs, s)
			}
		}
		if len(strs) == len(val) {
			return strs
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	default:
		return v
	}
}

// Stringify renders data as a metadata block followed by body.
func Stringify(data map[string]any, body string) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("frontmatter: marshal: %w", err)
	}
	var b strings.Builder
	b.Grow(len(out) + len(body) + 8)
	b.WriteString(delimiter + "\n")
	b.Write(out)
	b.WriteString(delimiter + "\n")
	b.WriteString(body)
	return b.String(), nil
}

// Validate checks the fields a post's metadata must carry. Failures are
// reported as messages, never as an error.
func Validate(data map[string]any) (bool, []string) {
	var errs []string
	if title, ok := String(data, "title"); !ok || strings.TrimSpace(title) == "" {
		errs = append(errs, "Title is required in frontmatter")
	}
	return len(errs) == 0, errs
}

// String returns data[key] as a string. Numbers and booleans are formatted.
func String(data map[string]any, key string) (string, bool) {
	switch v := data[key].(type) {
	case string:
		return v, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// Bool returns data[key] as a boolean, accepting "true"/"false" strings.
func Bool(data map[string]any, key string) (bool, bool) {
	switch v := data[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	default:
		return false, false
	}
}

// Strings returns data[key] as a string slice. A plain string is split on commas.
func Strings(data map[string]any, key string) ([]string, bool) {
	switch v := data[key].(type) {
	case []string:
		return append([]string{}, v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		if out == nil {
			out = []string{}
		}
		return out, true
	default:
		return nil, false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time returns data[key] parsed as a timestamp. Dates without a zone are UTC.
func Time(data map[string]any, key string) (time.Time, bool) {
	switch v := data[key].(type) {
	case time.Time:
		return v.UTC(), true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
