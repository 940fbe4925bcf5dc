package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/markflow/model/element"
	"github.com/viant/markflow/service/dao"
	delement "github.com/viant/markflow/service/dao/element"
	"github.com/viant/markflow/service/dao/criteria"
)

// Service implements an afs backed element store, one JSON file per element
type Service struct {
	basePath string
	fs       afs.Service
	logger   *slog.Logger
	mu       sync.RWMutex
}

var _ dao.Service[string, element.Element] = (*Service)(nil)

// Save persists an element
func (s *Service) Save(ctx context.Context, e *element.Element) error {
	if e == nil {
		return dao.ErrNilEntity
	}
	if e.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal element %v: %w", e.ID, err)
	}
	filePath := s.elementPath(e.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save element to file %s: %w", filePath, err)
	}
	e.Attach(s)
	return nil
}

// Load reads an element
func (s *Service) Load(ctx context.Context, id string) (*element.Element, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.elementPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if element exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("element %v: %w", id, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read element file: %w", err)
	}
	return s.decode(data)
}

// Delete removes an element
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.elementPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if element exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("element %v: %w", id, dao.ErrNotFound)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete element file: %w", err)
	}
	return nil
}

// List returns all elements matching parameters
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*element.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list element files: %w", err)
	}
	var elements []*element.Element
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("failed to read element file", "url", object.URL(), "error", err)
			continue
		}
		e, err := s.decode(data)
		if err != nil {
			s.logger.Warn("failed to decode element file", "url", object.URL(), "error", err)
			continue
		}
		if !criteria.Match(delement.Fields(e), parameters) {
			continue
		}
		elements = append(elements, e)
	}
	return elements, nil
}

func (s *Service) decode(data []byte) (*element.Element, error) {
	e := &element.Element{}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal element: %w", err)
	}
	if e.ID == "" {
		return nil, errors.New("element file has no id")
	}
	e.Attach(s)
	return e, nil
}

func (s *Service) elementPath(id string) string {
	return url.Join(s.basePath, id+".json")
}

// New creates an afs element store rooted at basePath
func New(ctx context.Context, basePath string, logger *slog.Logger) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	fs := afs.New()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	basePath = url.Normalize(basePath, file.Scheme)
	return &Service{basePath: basePath, fs: fs, logger: logger}, nil
}
