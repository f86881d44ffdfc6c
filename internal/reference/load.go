package reference

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/supplements.yaml
var embedded []byte

type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf определяет формат по расширению файла; всё, кроме .json, читается как YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func Parse(data []byte, format Format) (Bundle, error) {
	var b Bundle
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &b)
	default:
		err = yaml.Unmarshal(data, &b)
	}
	if err != nil {
		return Bundle{}, fmt.Errorf("parse reference bundle: %w", err)
	}
	if len(b.Supplements) == 0 {
		return Bundle{}, fmt.Errorf("parse reference bundle: no supplements")
	}
	return b, nil
}

// Load читает справочник из файла или, если путь пустой, из встроенного набора.
// Ошибка загрузки не фатальна: возвращается пустой индекс.
func Load(path string, log *zap.Logger) *Index {
	if log == nil {
		log = zap.NewNop()
	}
	data := embedded
	format := FormatYAML
	source := "embedded"
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("Справочник добавок недоступен, работаем без него", zap.String("path", path), zap.Error(err))
			return Empty()
		}
		data, format, source = raw, FormatOf(path), path
	}
	b, err := Parse(data, format)
	if err != nil {
		log.Warn("Справочник добавок повреждён, работаем без него", zap.String("source", source), zap.Error(err))
		return Empty()
	}
	x := NewIndex(b)
	log.Info("Reference index loaded",
		zap.String("source", source),
		zap.Int("supplements", x.Len()),
		zap.Int("interactions", len(b.Interactions)),
		zap.Int("synergies", len(b.Synergies)))
	return x
}

var (
	defaultOnce  sync.Once
	defaultIndex *Index
)

// Default лениво загружает встроенный справочник один раз на процесс.
func Default(log *zap.Logger) *Index {
	defaultOnce.Do(func() {
		defaultIndex = Load("", log)
	})
	return defaultIndex
}
