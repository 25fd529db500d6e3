package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sensai-ai/hubkit/internal/export/csv"
	"github.com/sensai-ai/hubkit/internal/export/sqlite"
	"github.com/sensai-ai/hubkit/internal/export/types"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents a supported export format.
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatCSV    Format = "csv"
)

const (
	// EngineVersion represents the version of the export engine.
	// This should be updated when making breaking changes to the export format.
	EngineVersion = "1.0.0"

	// ManifestFile describes the archive next to the data files.
	ManifestFile = "export_manifest.json"
)

// ParseFormats turns a comma separated list such as "csv,sqlite" into formats.
// "all" selects every format.
func ParseFormats(value string) ([]Format, error) {
	if strings.TrimSpace(value) == "" || value == "all" {
		return []Format{FormatSQLite, FormatCSV}, nil
	}

	var formats []Format

	seen := make(map[Format]bool)

	for _, part := range strings.Split(value, ",") {
		format := Format(strings.ToLower(strings.TrimSpace(part)))
		switch format {
		case FormatSQLite, FormatCSV:
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, part)
		}

		if !seen[format] {
			seen[format] = true
			formats = append(formats, format)
		}
	}

	return formats, nil
}

// Manifest is written alongside every export.
type Manifest struct {
	HubID         int64     `json:"hubId"`
	ExportedAt    time.Time `json:"exportedAt"`
	EngineVersion string    `json:"engineVersion"`
	Formats       []Format  `json:"formats"`
	Posts         int       `json:"posts"`
	Comments      int       `json:"comments"`
	Pseudonymized bool      `json:"pseudonymized"`
	HashType      HashType  `json:"hashType,omitempty"`
}

// Exporter writes an archive in each configured format.
type Exporter struct {
	outDir  string
	formats []Format
	logger  *zap.Logger
}

// New creates a new exporter instance.
func New(outDir string, formats []Format, logger *zap.Logger) *Exporter {
	return &Exporter{
		outDir:  outDir,
		formats: formats,
		logger:  logger.Named("export"),
	}
}

// Export writes the manifest and every format into the output directory.
// hashType is empty when authors were left as is.
func (e *Exporter) Export(archive *types.Archive, hashType HashType, now time.Time) (*Manifest, error) {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, format := range e.formats {
		e.logger.Info("Writing export", zap.String("format", string(format)))

		if err := e.export(format, archive); err != nil {
			return nil, fmt.Errorf("failed to export %s format: %w", format, err)
		}
	}

	manifest := &Manifest{
		HubID:         archive.HubID,
		ExportedAt:    now.UTC(),
		EngineVersion: EngineVersion,
		Formats:       e.formats,
		Posts:         len(archive.Posts),
		Comments:      len(archive.Comments),
		Pseudonymized: hashType != "",
		HashType:      hashType,
	}

	data, err := sonic.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(e.outDir, ManifestFile), data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write export manifest: %w", err)
	}

	e.logger.Info("Export completed",
		zap.String("outDir", e.outDir),
		zap.Int("posts", manifest.Posts),
		zap.Int("comments", manifest.Comments))

	return manifest, nil
}

// export handles exporting data in the specified format.
func (e *Exporter) export(format Format, archive *types.Archive) error {
	var exporter interface {
		Export(archive *types.Archive) error
	}

	switch format {
	case FormatSQLite:
		exporter = sqlite.New(e.outDir)
	case FormatCSV:
		exporter = csv.New(e.outDir)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return exporter.Export(archive)
}
