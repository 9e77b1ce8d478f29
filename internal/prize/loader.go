package prize

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrCatalogMalformed reports an artifact that exists but cannot be used as a whole.
var ErrCatalogMalformed = errors.New("prize catalog malformed")

// rawFile mirrors the catalog artifact; both YAML and JSON use the same keys.
type rawFile struct {
	Prizes []rawPrize `yaml:"prizes" json:"prizes"`
}

type rawPrize struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Category     string   `yaml:"category" json:"category"`
	Weight       *float64 `yaml:"weight,omitempty" json:"weight,omitempty"`
	InitialStock int      `yaml:"initialStock" json:"initialStock"`
}

// Loader reads the catalog artifact from Path.
type Loader struct {
	Path   string
	Logger *zap.Logger
}

func NewLoader(path string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Path: path, Logger: logger}
}

// Load returns the catalog described by the artifact.
// Missing artifact: current is returned unchanged with no error.
// Empty or unparsable artifact: current is returned with an ErrCatalogMalformed-wrapped error.
// A successful load replaces current entirely.
func (l *Loader) Load(current Catalog) (Catalog, error) {
	b, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.Logger.Warn("prize catalog not found, keeping current catalog",
				zap.String("path", l.Path), zap.Int("prizes", current.Len()))
			return current, nil
		}
		return current, fmt.Errorf("read catalog: %w", err)
	}

	raw, err := decode(l.Path, b)
	if err != nil {
		return current, fmt.Errorf("%w: %v", ErrCatalogMalformed, err)
	}
	if len(raw.Prizes) == 0 {
		return current, fmt.Errorf("%w: no prizes", ErrCatalogMalformed)
	}

	cat := Catalog{Prizes: make([]Definition, 0, len(raw.Prizes))}
	for _, p := range raw.Prizes {
		category, ok := ParseCategory(p.Category)
		if !ok {
			l.Logger.Warn("unknown prize category, using Small",
				zap.String("id", p.ID), zap.String("category", p.Category))
		}
		weight := 1.0
		if p.Weight != nil {
			weight = *p.Weight
		}
		stock := p.InitialStock
		if stock < 0 {
			stock = 0
		}
		cat.Prizes = append(cat.Prizes, Definition{
			ID:           strings.TrimSpace(p.ID),
			Name:         p.Name,
			Category:     category,
			Weight:       weight,
			InitialStock: stock,
		})
	}
	if err := cat.Validate(); err != nil {
		return current, fmt.Errorf("%w: %v", ErrCatalogMalformed, err)
	}
	if cat.FillerIndex() < 0 {
		l.Logger.Warn("catalog has no filler segment", zap.String("filler_id", FillerID))
	}

	l.Logger.Info("prize catalog loaded", zap.String("path", l.Path), zap.Int("prizes", cat.Len()))
	return cat, nil
}

// decode picks the codec by file extension; unknown extensions are tried as YAML,
// which also accepts JSON documents.
func decode(path string, b []byte) (rawFile, error) {
	var raw rawFile
	if len(strings.TrimSpace(string(b))) == 0 {
		return raw, errors.New("empty file")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(b, &raw); err != nil {
			return rawFile{}, err
		}
	default:
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return rawFile{}, err
		}
	}
	return raw, nil
}
