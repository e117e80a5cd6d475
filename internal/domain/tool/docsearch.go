package tool

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DocSearch is the search_docs capability: keyword search over the document
// corpus via the FTS5 index, ranked by BM25.
type DocSearch struct {
	db *sql.DB
}

// DocMatch is one ranked search hit.
type DocMatch struct {
	Filename string  `json:"filename"`
	Title    string  `json:"title"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// Invoke runs the FTS query. An empty result set is still a successful
// invocation: the payload says so explicitly, so the model reports the gap
// instead of inventing hits.
func (s *DocSearch) Invoke(ctx context.Context, args Args) (any, error) {
	if s.db == nil {
		return nil, fmt.Errorf("document store not configured")
	}

	query := args["query"].(string)
	maxResults := args["max_results"].(int)
	if maxResults < 1 {
		maxResults = 1
	}

	// FTS5 bm25() returns negative values, lower = better match.
	const ftsQuery = `
		SELECT d.filename, d.title,
		       snippet(document_fts, 1, '', '', '...', 32) AS snippet,
		       bm25(document_fts) AS score
		FROM document_fts
		JOIN document d ON d.rowid = document_fts.rowid
		WHERE document_fts MATCH ?
		ORDER BY bm25(document_fts)
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, ftsQuery, ftsMatchExpr(query), maxResults)
	if err != nil {
		// FTS5 rejects queries it cannot tokenize — treat as no match.
		return emptyResult(query), nil
	}
	defer rows.Close()

	matches := make([]DocMatch, 0, maxResults)
	for rows.Next() {
		var m DocMatch
		if scanErr := rows.Scan(&m.Filename, &m.Title, &m.Snippet, &m.Score); scanErr != nil {
			return nil, fmt.Errorf("search_docs scan: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search_docs: %w", err)
	}

	if len(matches) == 0 {
		return emptyResult(query), nil
	}

	return map[string]any{
		"query":   query,
		"count":   len(matches),
		"results": matches,
	}, nil
}

func emptyResult(query string) map[string]any {
	return map[string]any{
		"query":   query,
		"count":   0,
		"results": []DocMatch{},
		"message": fmt.Sprintf("no documents matched %q", query),
	}
}

// ftsMatchExpr quotes each whitespace-separated term so model-supplied text
// cannot inject FTS5 query operators.
func ftsMatchExpr(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}
