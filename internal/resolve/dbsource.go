package resolve

import (
	"context"
	"database/sql"
	"os"

	_ "modernc.org/sqlite"
)

// Kodi's video views already join paths and titles together; playCount
// above zero marks an item watched.
const (
	watchedEpisodesSQL = `
		SELECT ifnull(strPath, '') || ifnull(strFileName, '') AS file,
		       ifnull(strTitle, '')                           AS show,
		       ifnull(c00, '')                                AS title
		FROM episode_view
		WHERE playCount > 0
		ORDER BY strTitle`

	watchedMoviesSQL = `
		SELECT ifnull(strPath, '') || ifnull(strFileName, '') AS file,
		       ifnull(c00, '')                                AS title
		FROM movie_view
		WHERE playCount > 0
		ORDER BY c00`
)

// DBSource reads watched items from a copy of Kodi's MyVideos database.
type DBSource struct {
	db *sql.DB
}

// OpenDB opens a MyVideos SQLite database read-only.
func OpenDB(path string) (*DBSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &SourceError{Source: path, Err: err}
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &SourceError{Source: path, Err: err}
	}
	return &DBSource{db: db}, nil
}

func (s *DBSource) Watched(ctx context.Context, kind MediaKind) ([]WatchedItem, error) {
	var items []WatchedItem

	if kind == TV || kind == All {
		episodes, err := s.episodes(ctx)
		if err != nil {
			return nil, &SourceError{Source: "database", Err: err}
		}
		items = append(items, episodes...)
	}

	if kind == Movies || kind == All {
		movies, err := s.movies(ctx)
		if err != nil {
			return nil, &SourceError{Source: "database", Err: err}
		}
		items = append(items, movies...)
	}

	return items, nil
}

func (s *DBSource) episodes(ctx context.Context) ([]WatchedItem, error) {
	rows, err := s.db.QueryContext(ctx, watchedEpisodesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []WatchedItem
	for rows.Next() {
		var it WatchedItem
		if err := rows.Scan(&it.Path, &it.Show, &it.Title); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *DBSource) movies(ctx context.Context) ([]WatchedItem, error) {
	rows, err := s.db.QueryContext(ctx, watchedMoviesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []WatchedItem
	for rows.Next() {
		var it WatchedItem
		if err := rows.Scan(&it.Path, &it.Show); err != nil {
			return nil, err
		}
		it.Title = it.Show
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *DBSource) Close() error {
	return s.db.Close()
}
