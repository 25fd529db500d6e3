package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sensai-ai/hubkit/internal/export/types"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// FileName is the database written into the output directory.
const FileName = "hub.db"

const schema = `
CREATE TABLE posts (
	id INTEGER PRIMARY KEY,
	hub_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	post_type TEXT NOT NULL,
	author TEXT NOT NULL,
	created_at TEXT NOT NULL,
	votes INTEGER NOT NULL,
	is_answered INTEGER NOT NULL,
	comment_count INTEGER NOT NULL,
	content TEXT NOT NULL
);
CREATE TABLE comments (
	id INTEGER PRIMARY KEY,
	post_id INTEGER NOT NULL REFERENCES posts(id),
	author TEXT NOT NULL,
	created_at TEXT NOT NULL,
	votes INTEGER NOT NULL,
	content TEXT NOT NULL
);
CREATE INDEX comments_post_id ON comments(post_id);
`

// batchSize bounds how many rows share one transaction.
const batchSize = 1000

// Exporter handles exporting an archive to a SQLite database.
type Exporter struct {
	outDir string
}

// New creates a new SQLite exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes posts and comments into a fresh database.
func (e *Exporter) Export(archive *types.Archive) error {
	path := filepath.Join(e.outDir, FileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing file %s: %w", FileName, err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer conn.Close()

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	postRows := make([][]any, 0, len(archive.Posts))
	for _, post := range archive.Posts {
		postRows = append(postRows, []any{
			post.ID, post.HubID, post.Title, post.PostType, post.Author,
			post.CreatedAt, post.Votes, boolInt(post.IsAnswered), int64(post.CommentCount), post.Content,
		})
	}

	if err := insertBatches(conn,
		`INSERT INTO posts (id, hub_id, title, post_type, author, created_at, votes, is_answered, comment_count, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, postRows); err != nil {
		return fmt.Errorf("failed to export posts: %w", err)
	}

	commentRows := make([][]any, 0, len(archive.Comments))
	for _, comment := range archive.Comments {
		commentRows = append(commentRows, []any{
			comment.ID, comment.PostID, comment.Author, comment.CreatedAt, comment.Votes, comment.Content,
		})
	}

	if err := insertBatches(conn,
		`INSERT INTO comments (id, post_id, author, created_at, votes, content) VALUES (?, ?, ?, ?, ?, ?)`,
		commentRows); err != nil {
		return fmt.Errorf("failed to export comments: %w", err)
	}

	return nil
}

// insertBatches runs query once per row, committing every batchSize rows.
func insertBatches(conn *sqlite.Conn, query string, rows [][]any) error {
	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))

		if err := insertBatch(conn, query, rows[i:end]); err != nil {
			return err
		}
	}

	return nil
}

func insertBatch(conn *sqlite.Conn, query string, rows [][]any) (err error) {
	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer endFn(&err)

	for _, args := range rows {
		if err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args}); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	return nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
