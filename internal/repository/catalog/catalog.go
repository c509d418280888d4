package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/domain/zone"
)

// Repository loads the ordered zone catalog.
type Repository interface {
	Load(ctx context.Context) (*zone.Catalog, error)
}

// document is the on-disk YAML layout of a catalog.
type document struct {
	// Zones lists zone names in rotation order.
	Zones []string `yaml:"zones"`
}

// ErrNotFound is returned when the catalog file does not exist.
var ErrNotFound = errors.New("catalog not found")

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Open returns a FileRepository for path, or the bundled catalog when path is empty.
//
//nolint:ireturn // Callers only need the Repository behaviour.
func Open(path string) Repository {
	if path == "" {
		return Embedded()
	}

	return NewFileRepository(path)
}

// FileRepository reads and writes a catalog YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the catalog file.
	path string
	// mu serialises file access.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the catalog from disk.
func (r *FileRepository) Load(_ context.Context) (*zone.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}

		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	return decode(contents)
}

// Save writes the catalog to disk in the same YAML layout Load expects.
func (r *FileRepository) Save(_ context.Context, catalog *zone.Catalog) error {
	if catalog == nil {
		return zone.ErrEmptyCatalog
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := encode(catalog)
	if err != nil {
		return err
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}

	return nil
}

// EmbeddedRepository serves the catalog bundled into the binary.
type EmbeddedRepository struct{}

// Embedded returns the repository for the bundled catalog.
func Embedded() *EmbeddedRepository {
	return new(EmbeddedRepository)
}

// Load decodes the bundled catalog.
func (*EmbeddedRepository) Load(_ context.Context) (*zone.Catalog, error) {
	return decode(defaultCatalog)
}

// decode parses a catalog document and builds the domain catalog.
func decode(contents []byte) (*zone.Catalog, error) {
	var doc document

	decoder := yaml.NewDecoder(bytes.NewReader(contents))
	decoder.KnownFields(true)

	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog, err := zone.NewCatalog(doc.Zones)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	return catalog, nil
}

// encode renders the catalog as a YAML document.
func encode(catalog *zone.Catalog) ([]byte, error) {
	data, err := yaml.Marshal(&document{Zones: catalog.Names()})
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}

	return data, nil
}
