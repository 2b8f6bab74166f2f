// Package bank loads and checks the question template catalog.
package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/numeracy/internal/questiongen"
)

//go:embed data/numeracy_bank.json
var defaultCatalog []byte

var (
	// ErrUnknownYear is returned for a year level the catalog has no section for.
	ErrUnknownYear = errors.New("unknown year level")

	// ErrUnsupportedVersion is returned when the catalog version is not a 1.x semver.
	ErrUnsupportedVersion = errors.New("unsupported catalog version")

	// ErrDuplicateID is returned when two templates share an id.
	ErrDuplicateID = errors.New("duplicate template id")
)

// SupportedMajor is the catalog major version this build understands.
const SupportedMajor = "v1"

// Format is the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the catalog format from a file name's extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// rawCatalog mirrors the catalog document.
type rawCatalog struct {
	Version string                  `json:"version" yaml:"version"`
	Year3   []*questiongen.Template `json:"year3" yaml:"year3"`
	Year5   []*questiongen.Template `json:"year5" yaml:"year5"`
	Year7   []*questiongen.Template `json:"year7" yaml:"year7"`
}

// Catalog is a loaded, checked set of templates grouped by year level.
// It is read-only after loading and safe for concurrent use.
type Catalog struct {
	Version string

	years  map[int][]*questiongen.Template
	byID   map[string]*questiongen.Template
	yearOf map[string]int
}

// Load reads a catalog in the given format, validates it against the
// catalog schema and checks its version.
func Load(r io.Reader, format Format) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var raw rawCatalog
	switch format {
	case FormatYAML:
		doc, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		if err := validateDocument(doc); err != nil {
			return nil, err
		}
		// Decode the YAML directly so params keep their key order.
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	default:
		if err := validateDocument(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	}
	return newCatalog(&raw)
}

// LoadFile reads a catalog from disk, choosing the format by extension.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(bytes.NewReader(defaultCatalog), FormatJSON)
	})
	return defaultCat, defaultErr
}

// Open returns the catalog at path, or the embedded one when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func newCatalog(raw *rawCatalog) (*Catalog, error) {
	if err := checkVersion(raw.Version); err != nil {
		return nil, err
	}

	c := &Catalog{
		Version: raw.Version,
		years:   make(map[int][]*questiongen.Template),
		byID:    make(map[string]*questiongen.Template),
		yearOf:  make(map[string]int),
	}
	sections := []struct {
		year      int
		templates []*questiongen.Template
	}{
		{3, raw.Year3},
		{5, raw.Year5},
		{7, raw.Year7},
	}
	for _, s := range sections {
		if s.templates == nil {
			continue
		}
		for _, t := range s.templates {
			if _, dup := c.byID[t.ID]; dup {
				return nil, fmt.Errorf("template %q: %w", t.ID, ErrDuplicateID)
			}
			c.byID[t.ID] = t
			c.yearOf[t.ID] = s.year
		}
		c.years[s.year] = s.templates
	}
	return c, nil
}

func checkVersion(v string) error {
	sv := v
	if !strings.HasPrefix(sv, "v") {
		sv = "v" + sv
	}
	if !semver.IsValid(sv) {
		return fmt.Errorf("version %q is not semver: %w", v, ErrUnsupportedVersion)
	}
	if semver.Major(sv) != SupportedMajor {
		return fmt.Errorf("version %q, want %s.x: %w", v, SupportedMajor, ErrUnsupportedVersion)
	}
	return nil
}

// Years lists the year levels present in the catalog in ascending order.
func (c *Catalog) Years() []int {
	years := make([]int, 0, len(c.years))
	for y := range c.years {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// Year returns the templates for a year level. The slice must not be modified.
func (c *Catalog) Year(year int) ([]*questiongen.Template, error) {
	ts, ok := c.years[year]
	if !ok {
		return nil, fmt.Errorf("year %d: %w", year, ErrUnknownYear)
	}
	return ts, nil
}

// Topics returns the distinct topics of a year level, sorted.
func (c *Catalog) Topics(year int) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, t := range c.years[year] {
		if !seen[t.Topic] {
			seen[t.Topic] = true
			topics = append(topics, t.Topic)
		}
	}
	slices.Sort(topics)
	return topics
}

// Template looks up a template by id and reports its year level.
func (c *Catalog) Template(id string) (*questiongen.Template, int, bool) {
	t, ok := c.byID[id]
	if !ok {
		return nil, 0, false
	}
	return t, c.yearOf[id], true
}

// Len returns the total number of templates.
func (c *Catalog) Len() int {
	return len(c.byID)
}
