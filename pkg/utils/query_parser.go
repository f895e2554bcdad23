package utils

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/andimendes/zap-desk-engine/pkg/types"
)

// ParseFilterFromQuery maps URL query parameters onto a types.Filter.
// Supported shapes: search=..., sort[field]=asc|desc, filter[field]=v or
// filter[field]=v1,v2, limit/offset/page, with_pagination.
func ParseFilterFromQuery(query url.Values) types.Filter {
	f := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  10,
		Page:   1,
	}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]"):
			f.Filter[key[7:len(key)-1]] = values[0]
		case strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]"):
			f.Sort[key[5:len(key)-1]] = values[0]
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			f.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			f.Offset = o
			if f.Limit > 0 {
				f.Page = (o / f.Limit) + 1
			}
		}
	}
	if pageStr := query.Get("page"); pageStr != "" && f.Offset == 0 {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			f.Page = p
			f.Offset = (p - 1) * f.Limit
		}
	}

	if search := query.Get("search"); search != "" {
		f.Search = search
	}
	f.WithPagination = query.Get("with_pagination") != "false"

	return f
}
