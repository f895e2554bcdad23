package bd

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/andimendes/zap-desk-engine/pkg/types"
)

// ApplyListParams extends a select builder with the filter's criteria.
// allowedMap whitelists the JSON field names clients may filter or sort
// by and maps them onto columns. A comma-separated value becomes a set
// membership test (e.g. filter[stage_id]=1,2,4); the created_before /
// created_after pseudo-fields become timestamp inequalities.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	for jsonField, val := range filter.Filter {
		switch jsonField {
		case "created_before":
			builder = builder.Where(sq.Lt{"created_at": val})
			continue
		case "created_after":
			builder = builder.Where(sq.Gt{"created_at": val})
			continue
		}

		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}

		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			builder = builder.Where(sq.Eq{dbCol: val})
		}
	}

	if len(filter.Sort) > 0 {
		for jsonField, dir := range filter.Sort {
			dbCol, ok := allowedMap[jsonField]
			if !ok {
				continue
			}
			sqlDir := "ASC"
			if strings.ToLower(dir) == "desc" {
				sqlDir = "DESC"
			}
			builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
		}
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	return builder
}
