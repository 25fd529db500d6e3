package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sensai-ai/hubkit/internal/export/types"
)

var (
	postsHeader    = []string{"id", "hub_id", "title", "post_type", "author", "created_at", "votes", "is_answered", "comment_count", "content"}
	commentsHeader = []string{"id", "post_id", "author", "created_at", "votes", "content"}
)

// Exporter handles exporting an archive to csv files.
type Exporter struct {
	outDir string
}

// New creates a new csv exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes posts and comments to separate csv files.
func (e *Exporter) Export(archive *types.Archive) error {
	// Remove existing files if they exist
	files := []string{"posts.csv", "comments.csv"}
	for _, file := range files {
		path := filepath.Join(e.outDir, file)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing file %s: %w", file, err)
		}
	}

	posts := make([][]string, 0, len(archive.Posts))
	for _, post := range archive.Posts {
		posts = append(posts, []string{
			strconv.FormatInt(post.ID, 10),
			strconv.FormatInt(post.HubID, 10),
			post.Title,
			post.PostType,
			post.Author,
			post.CreatedAt,
			strconv.FormatInt(post.Votes, 10),
			strconv.FormatBool(post.IsAnswered),
			strconv.Itoa(post.CommentCount),
			post.Content,
		})
	}

	if err := e.writeFile("posts.csv", postsHeader, posts); err != nil {
		return fmt.Errorf("failed to export posts: %w", err)
	}

	comments := make([][]string, 0, len(archive.Comments))
	for _, comment := range archive.Comments {
		comments = append(comments, []string{
			strconv.FormatInt(comment.ID, 10),
			strconv.FormatInt(comment.PostID, 10),
			comment.Author,
			comment.CreatedAt,
			strconv.FormatInt(comment.Votes, 10),
			comment.Content,
		})
	}

	if err := e.writeFile("comments.csv", commentsHeader, comments); err != nil {
		return fmt.Errorf("failed to export comments: %w", err)
	}

	return nil
}

// writeFile writes a header and rows to a csv file.
func (e *Exporter) writeFile(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filepath.Join(e.outDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	return nil
}
