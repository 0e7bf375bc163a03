// Package store loads annotation collections from their at-rest forms: a
// JSON export file or the authoring environment's annotation database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lb42/annotei/core/annotate"
)

// LoadJSON reads an annotation collection from a JSON file. Both a bare
// array and the annotation service's export envelope ({"rows": [...]})
// are accepted.
func LoadJSON(path string) ([]*annotate.Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes an annotation collection from JSON bytes.
func ParseJSON(data []byte) ([]*annotate.Annotation, error) {
	var anns []*annotate.Annotation
	if err := json.Unmarshal(data, &anns); err == nil {
		return anns, nil
	}
	var envelope struct {
		Rows []*annotate.Annotation `json:"rows"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding annotations: %w", err)
	}
	return envelope.Rows, nil
}

// LoadSQLite reads an annotation collection from the annotation service's
// SQLite database. The database is opened read-only; the export never
// writes back. Structured fields (selections, tags, related pages) live
// in the info JSON column, scalar columns take precedence over any
// duplicates inside it.
func LoadSQLite(ctx context.Context, path string) ([]*annotate.Annotation, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening annotation database: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening annotation database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, user, text, uri, info FROM annotation`)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	var anns []*annotate.Annotation
	for rows.Next() {
		var (
			id, text, uri string
			user, info    sql.NullString
		)
		if err := rows.Scan(&id, &user, &text, &uri, &info); err != nil {
			return nil, fmt.Errorf("scanning annotation row: %w", err)
		}

		ann := &annotate.Annotation{}
		if info.Valid && info.String != "" {
			if err := json.Unmarshal([]byte(info.String), ann); err != nil {
				return nil, fmt.Errorf("decoding info for annotation %s: %w", id, err)
			}
		}
		ann.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("annotation %s: %w", id, err)
		}
		ann.User = user.String
		ann.Text = text
		ann.URI = uri
		anns = append(anns, ann)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}

	// deterministic input order regardless of database row order
	sort.Slice(anns, func(i, j int) bool {
		return anns[i].ID.String() < anns[j].ID.String()
	})
	return anns, nil
}
