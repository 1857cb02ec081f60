package core

import (
	"fmt"
	"slices"
)

// SortKey names the note field the visible list is ordered by.
type SortKey string

const (
	SortByCreatedAt SortKey = "createdAt"
	SortByUpdatedAt SortKey = "updatedAt"
	SortByTitle     SortKey = "title"
)

// Valid reports whether k is one of the supported keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle:
		return true
	}
	return false
}

// ParseSortKey converts user input into a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid sort key %q (want createdAt, updatedAt or title)", s)
	}
	return k, nil
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == Asc || o == Desc
}

// ParseSortOrder converts user input into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(s)
	if !o.Valid() {
		return "", fmt.Errorf("invalid sort order %q (want asc or desc)", s)
	}
	return o, nil
}

// SearchFilters are the transient criteria the visible note list is derived from.
type SearchFilters struct {
	Query     string
	Tags      []string
	SortBy    SortKey
	SortOrder SortOrder
}

// DefaultFilters derives the initial filters from the persisted settings.
func DefaultFilters(s AppSettings) SearchFilters {
	return SearchFilters{
		Query:     "",
		Tags:      []string{},
		SortBy:    s.DefaultSortBy,
		SortOrder: s.DefaultSortOrder,
	}
}

// FiltersPatch is a shallow partial update of SearchFilters.
type FiltersPatch struct {
	Query     *string
	Tags      *[]string
	SortBy    *SortKey
	SortOrder *SortOrder
}

// Merge applies p over f. Invalid sort keys or orders are ignored.
func (f SearchFilters) Merge(p FiltersPatch) SearchFilters {
	out := f
	out.Tags = slices.Clone(f.Tags)
	if p.Query != nil {
		out.Query = *p.Query
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	if p.SortBy != nil && p.SortBy.Valid() {
		out.SortBy = *p.SortBy
	}
	if p.SortOrder != nil && p.SortOrder.Valid() {
		out.SortOrder = *p.SortOrder
	}
	return out
}
