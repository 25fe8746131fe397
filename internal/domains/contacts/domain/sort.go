package domain

import (
	"strings"
)

// SortKey selects the ordering of contact listings.
type SortKey string

const (
	SortDefault        SortKey = "default"
	SortLastNameAsc    SortKey = "last_name_asc"
	SortLastNameDesc   SortKey = "last_name_desc"
	SortCreateTimeAsc  SortKey = "create_time_asc"
	SortCreateTimeDesc SortKey = "create_time_desc"
)

var sortKeys = map[string]SortKey{
	string(SortDefault):        SortDefault,
	string(SortLastNameAsc):    SortLastNameAsc,
	string(SortLastNameDesc):   SortLastNameDesc,
	string(SortCreateTimeAsc):  SortCreateTimeAsc,
	string(SortCreateTimeDesc): SortCreateTimeDesc,
}

// ParseSortKey resolves raw case-insensitively. Empty and unknown keys resolve to SortDefault.
func ParseSortKey(raw string) SortKey {
	if key, ok := sortKeys[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return key
	}
	return SortDefault
}

// OrderTerm is one column of an ORDER BY list.
type OrderTerm struct {
	Column string
	Desc   bool
}

// Terms returns the full ordering for k, ending on the primary key so pages are stable.
func (k SortKey) Terms() []OrderTerm {
	switch k {
	case SortLastNameDesc:
		return []OrderTerm{{"last_name", true}, {"first_name", true}, {"id", true}}
	case SortCreateTimeAsc:
		return []OrderTerm{{"created_time", false}, {"id", false}}
	case SortCreateTimeDesc:
		return []OrderTerm{{"created_time", true}, {"id", true}}
	default:
		return []OrderTerm{{"last_name", false}, {"first_name", false}, {"id", false}}
	}
}

// Compare orders two contacts the same way Terms orders rows.
func (k SortKey) Compare(a, b *Contact) int {
	for _, term := range k.Terms() {
		c := compareColumn(term.Column, a, b)
		if term.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareColumn(column string, a, b *Contact) int {
	switch column {
	case "last_name":
		return strings.Compare(a.LastName, b.LastName)
	case "first_name":
		return strings.Compare(a.FirstName, b.FirstName)
	case "created_time":
		return a.CreatedTime.Compare(b.CreatedTime)
	case "id":
		return strings.Compare(a.ID.String(), b.ID.String())
	}
	return 0
}
