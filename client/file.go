package client

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/habedi/showcase/catalog"
	"github.com/rs/zerolog/log"
)

// FileSource reads the catalogue document from a local JSON file.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) (catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info().Str("path", s.Path).Msg("Reading catalogue file")
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}
	return catalog.Parse(data)
}

// NewSource picks an HTTP source for http(s) URLs and a file source for everything else.
func NewSource(location string) catalog.Source {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return &HTTPSource{URL: location}
	case strings.HasPrefix(lower, "file://"):
		return &FileSource{Path: location[len("file://"):]}
	default:
		return &FileSource{Path: location}
	}
}
