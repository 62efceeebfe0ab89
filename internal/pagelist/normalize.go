package pagelist

import (
	"bytes"
	"encoding/json"
)

// State is the canonical shape of one page of list data, whatever the
// backend's envelope looked like. Items keep server order; records stay
// opaque (raw JSON) for the caller to decode.
type State struct {
	Items      []json.RawMessage
	Total      int
	TotalPages int
	Page       int
	Filters    map[string]string
	// Err holds the last load failure message, empty while healthy.
	Err string
}

// pageMeta is the pagination metadata block found inside backend envelopes.
// Field presence varies per endpoint, hence the pointers: absent fields fall
// back to values derived from the item slice and page size.
type pageMeta struct {
	Total       *int `json:"total"`
	Pages       *int `json:"pages"`
	TotalPages  *int `json:"totalPages"`
	CurrentPage *int `json:"currentPage"`
	Page        *int `json:"page"`
}

// envelope covers the object-shaped responses: rows/pagination at the top
// level, or nested one level under data.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Rows       []json.RawMessage `json:"rows"`
	Pagination *pageMeta         `json:"pagination"`
	Meta       *pageMeta         `json:"meta"`
}

type dataEnvelope struct {
	Rows       []json.RawMessage `json:"rows"`
	Pagination *pageMeta         `json:"pagination"`
}

// Normalize adapts one of the known backend response shapes into a State.
// Shapes are tried in precedence order, first match wins:
//
//  1. bare array
//  2. object with data.rows (pagination from data.pagination)
//  3. object with top-level rows (pagination from top-level pagination)
//  4. object with data as array (pagination from pagination, else meta)
//  5. anything else, including null and garbage: empty result
//
// Normalize is total: no input produces an error, unrecognized shapes
// degrade to the empty result.
func Normalize(raw []byte, pageSize int) State {
	if pageSize < 1 {
		pageSize = 1
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return emptyState()
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return emptyState()
		}
		return applyMeta(items, nil, pageSize)
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return emptyState()
		}
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '{' {
			var inner dataEnvelope
			if err := json.Unmarshal(d, &inner); err == nil && inner.Rows != nil {
				return applyMeta(inner.Rows, inner.Pagination, pageSize)
			}
		}
		if env.Rows != nil {
			return applyMeta(env.Rows, env.Pagination, pageSize)
		}
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '[' {
			var items []json.RawMessage
			if err := json.Unmarshal(d, &items); err == nil {
				meta := env.Pagination
				if meta == nil {
					meta = env.Meta
				}
				return applyMeta(items, meta, pageSize)
			}
		}
		return emptyState()
	default:
		return emptyState()
	}
}

// applyMeta fills the pagination fields, falling back per field: total from
// the item count, totalPages from ceil(total/pageSize) floored at 1, page
// from currentPage then page then 1, clamped into [1, totalPages].
func applyMeta(items []json.RawMessage, meta *pageMeta, pageSize int) State {
	if items == nil {
		items = []json.RawMessage{}
	}
	s := State{Items: items}

	s.Total = len(items)
	if meta != nil && meta.Total != nil {
		s.Total = *meta.Total
	}
	if s.Total < 0 {
		s.Total = 0
	}

	switch {
	case meta != nil && meta.Pages != nil:
		s.TotalPages = *meta.Pages
	case meta != nil && meta.TotalPages != nil:
		s.TotalPages = *meta.TotalPages
	default:
		s.TotalPages = (s.Total + pageSize - 1) / pageSize
	}
	if s.TotalPages < 1 {
		s.TotalPages = 1
	}

	s.Page = 1
	if meta != nil {
		// currentPage wins over page when both are present.
		if meta.CurrentPage != nil {
			s.Page = *meta.CurrentPage
		} else if meta.Page != nil {
			s.Page = *meta.Page
		}
	}
	s.Page = clampPage(s.Page, s.TotalPages)
	return s
}

func emptyState() State {
	return State{Items: []json.RawMessage{}, Total: 0, TotalPages: 1, Page: 1}
}

func clampPage(p, totalPages int) int {
	if p < 1 {
		return 1
	}
	if p > totalPages {
		return totalPages
	}
	return p
}
