// Package meta loads configuration resources (YAML or JSON) through afs,
// expanding ${env.KEY} expressions before decoding.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service represents meta loader
type Service struct {
	fs      afs.Service
	baseURL string
}

// URL returns resource URL, relative locations are resolved against base URL
func (s *Service) URL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) || path.IsAbs(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Exists returns true if resource exists
func (s *Service) Exists(ctx context.Context, location string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(location))
}

// Download returns resource content with ${env.KEY} expressions expanded
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return []byte(expandEnvExpr(string(data))), nil
}

// Load decodes resource into target; JSON is used for .json resources, YAML otherwise.
// A *yaml.Node target keeps the document structure.
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	data, err := s.Download(ctx, location)
	if err != nil {
		return err
	}
	if strings.HasSuffix(strings.ToLower(location), ".json") {
		if _, ok := target.(*yaml.Node); !ok {
			if err = json.Unmarshal(data, target); err != nil {
				return fmt.Errorf("failed to decode %v: %w", location, err)
			}
			return nil
		}
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", location, err)
	}
	return nil
}

// New creates meta service
func New(fs afs.Service, baseURL string) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL}
}
