package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-volunteer/store"
)

// Query-string translation for GET /events. Only whitelisted fields and
// operators make it into a store query; anything else is dropped.

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindTime
)

// filterable maps the public field name to its stored name and value kind.
// Membership queries are limited to the closed-enum fields.
var filterable = map[string]struct {
	stored string
	kind   fieldKind
	in     bool
}{
	"category":         {"category", kindString, true},
	"status":           {"status", kindString, true},
	"location":         {"location", kindString, false},
	"date":             {"date", kindTime, false},
	"volunteersNeeded": {"volunteers_needed", kindInt, false},
}

var sortable = map[string]string{
	"createdAt":        "created_at",
	"date":             "date",
	"title":            "title",
	"volunteersNeeded": "volunteers_needed",
}

var selectable = map[string]string{
	"title":            "title",
	"description":      "description",
	"organization":     "organization",
	"date":             "date",
	"startTime":        "start_time",
	"endTime":          "end_time",
	"location":         "location",
	"address":          "address",
	"category":         "category",
	"skillsRequired":   "skills_required",
	"volunteersNeeded": "volunteers_needed",
	"status":           "status",
	"image":            "image",
	"createdAt":        "created_at",
}

// ParseEventQuery builds a store query from request query parameters.
// Reserved parameters are select, sort, page and limit; every other parameter
// is treated as a field filter, either bare (equality) or with a bracketed
// operator such as date[gte]=2026-01-01.
func ParseEventQuery(values url.Values) (store.EventQuery, error) {
	q := store.EventQuery{
		Filter: map[string]store.Cond{},
		Page:   defaultPage,
		Limit:  defaultLimit,
	}

	for key, raw := range values {
		if len(raw) == 0 {
			continue
		}
		value := raw[0]

		switch key {
		case "select":
			q.Select = parseSelect(value)
			continue
		case "sort":
			q.Sort = parseSort(value)
			continue
		case "page":
			page, err := strconv.Atoi(value)
			if err != nil || page < 1 {
				return q, fmt.Errorf("invalid page %q", value)
			}
			q.Page = page
			continue
		case "limit":
			limit, err := strconv.Atoi(value)
			if err != nil || limit < 1 {
				return q, fmt.Errorf("invalid limit %q", value)
			}
			if limit > maxLimit {
				limit = maxLimit
			}
			q.Limit = limit
			continue
		}

		field, op := splitFilterKey(key)
		spec, ok := filterable[field]
		if !ok {
			continue
		}
		if !validOp(op, spec.kind, spec.in) {
			continue
		}

		parsed, err := parseFilterValue(value, op, spec.kind)
		if err != nil {
			return q, err
		}
		if q.Filter[spec.stored] == nil {
			q.Filter[spec.stored] = store.Cond{}
		}
		q.Filter[spec.stored][op] = parsed
	}

	if len(q.Sort) == 0 {
		q.Sort = []store.SortKey{{Field: "created_at", Desc: true}}
	}
	return q, nil
}

// splitFilterKey splits "field[op]" into its parts; a bare key is equality.
func splitFilterKey(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open == -1 || !strings.HasSuffix(key, "]") {
		return key, "eq"
	}
	return key[:open], key[open+1 : len(key)-1]
}

func validOp(op string, kind fieldKind, allowIn bool) bool {
	switch kind {
	case kindString:
		return op == "eq" || (op == "in" && allowIn)
	case kindInt, kindTime:
		switch op {
		case "eq", "gt", "gte", "lt", "lte":
			return true
		}
	}
	return false
}

func parseFilterValue(value, op string, kind fieldKind) (interface{}, error) {
	switch kind {
	case kindString:
		if op == "in" {
			return strings.Split(value, ","), nil
		}
		return value, nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", value)
		}
		return n, nil
	case kindTime:
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", value)
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown field kind")
}

func parseSelect(value string) []string {
	fields := []string{}
	for _, f := range strings.Split(value, ",") {
		if stored, ok := selectable[strings.TrimSpace(f)]; ok {
			fields = append(fields, stored)
		}
	}
	return fields
}

func parseSort(value string) []store.SortKey {
	keys := []store.SortKey{}
	for _, f := range strings.Split(value, ",") {
		f = strings.TrimSpace(f)
		desc := strings.HasPrefix(f, "-")
		f = strings.TrimPrefix(f, "-")
		if stored, ok := sortable[f]; ok {
			keys = append(keys, store.SortKey{Field: stored, Desc: desc})
		}
	}
	return keys
}
