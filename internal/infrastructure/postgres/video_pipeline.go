package postgres

import (
	"fmt"
	"strings"

	"github.com/vidtube/backend/internal/domain/repository"
)

// listPipeline renders the video discovery query. The stage order is a
// contract: search, owner filter, published filter, sort, owner join,
// pagination. Reordering changes result semantics, so stages are appended
// exactly once, in that order, by build().
type listPipeline struct {
	where []string
	args  []any

	orderBy string
	limit   int
	offset  int
}

var sortColumns = map[repository.VideoSortField]string{
	repository.SortByCreatedAt: "v.created_at",
	repository.SortByViews:     "v.views",
	repository.SortByDuration:  "v.duration",
	repository.SortByTitle:     "v.title",
}

const videoListSelect = `SELECT v.id, v.owner_id, v.video_url, v.video_asset_id,
	v.thumbnail_url, v.thumbnail_asset_id,
	v.title, v.description, v.duration, v.views, v.is_published,
	v.created_at, v.updated_at,
	u.id, u.username, u.full_name, u.avatar_url
FROM videos v
JOIN users u ON u.id = v.owner_id`

const videoCountSelect = `SELECT count(*) FROM videos v`

func buildListPipeline(p repository.VideoListParams) *listPipeline {
	q := &listPipeline{}

	// Stage 1: full-text search. Ids from the search collaborator win over
	// the SQL tsquery stage.
	if len(p.MatchIDs) > 0 {
		q.addFilter("v.id = ANY(%s::uuid[])", p.MatchIDs)
	} else if p.Query != "" {
		q.addFilter("to_tsvector('english', v.title || ' ' || v.description) @@ websearch_to_tsquery('english', %s)", p.Query)
	}

	// Stage 2: owner filter.
	if p.OwnerID != "" {
		q.addFilter("v.owner_id = %s", p.OwnerID)
	}

	// Stage 3: public listings only show published videos.
	q.where = append(q.where, "v.is_published = TRUE")

	// Stage 4: sort, newest first by default.
	col, ok := sortColumns[p.SortBy]
	if !ok {
		col = "v.created_at"
		p.SortDesc = true
	}
	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}
	q.orderBy = col + " " + dir

	// Stage 6: pagination (stage 5, the owner join, is part of the SELECT).
	q.limit = p.Limit
	q.offset = (p.Page - 1) * p.Limit

	return q
}

func (q *listPipeline) addFilter(cond string, arg any) {
	q.args = append(q.args, arg)
	q.where = append(q.where, fmt.Sprintf(cond, fmt.Sprintf("$%d", len(q.args))))
}

func (q *listPipeline) whereClause() string {
	return " WHERE " + strings.Join(q.where, " AND ")
}

// listSQL returns the page query and its args.
func (q *listPipeline) listSQL() (string, []any) {
	args := append(append([]any{}, q.args...), q.limit, q.offset)
	sql := videoListSelect + q.whereClause() +
		" ORDER BY " + q.orderBy +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return sql, args
}

// countSQL returns the total-items query over the same filters.
func (q *listPipeline) countSQL() (string, []any) {
	return videoCountSelect + q.whereClause(), q.args
}
