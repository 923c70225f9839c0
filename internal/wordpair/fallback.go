package wordpair

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fallback_words.yaml
var defaultFallbackYAML []byte

var ErrEmptyFallbackTable = errors.New("fallback table is empty")

// FallbackTable — неизменяемый список готовых пар на случай, когда модель недоступна.
// Пары разложены по режимам игры. Таблица никогда не бывает пустой: это
// проверяется при загрузке.
type FallbackTable struct {
	pairs []WordPair
	pools map[GameType][]WordPair
}

// fallbackEntry — строка YAML-файла. Без gameType пара относится к impostor.
type fallbackEntry struct {
	Pair     WordPair `yaml:",inline"`
	GameType string   `yaml:"gameType"`
}

type fallbackFile struct {
	Words []fallbackEntry `yaml:"words"`
}

// NewFallbackTable проверяет пары и копирует их в таблицу режима impostor.
func NewFallbackTable(pairs []WordPair) (*FallbackTable, error) {
	entries := make([]fallbackEntry, 0, len(pairs))
	for _, p := range pairs {
		entries = append(entries, fallbackEntry{Pair: p})
	}
	return newFallbackTable(entries)
}

func newFallbackTable(entries []fallbackEntry) (*FallbackTable, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyFallbackTable
	}
	t := &FallbackTable{
		pairs: make([]WordPair, 0, len(entries)),
		pools: make(map[GameType][]WordPair),
	}
	for i, e := range entries {
		p := e.Pair
		p.SecretWord = strings.TrimSpace(p.SecretWord)
		p.HintWord = strings.TrimSpace(p.HintWord)
		p.Category = strings.TrimSpace(p.Category)
		if p.SecretWord == "" || p.HintWord == "" || p.Category == "" {
			return nil, fmt.Errorf("fallback entry %d: secretWord, hintWord and category are required", i)
		}
		gameType, err := ParseGameType(e.GameType)
		if err != nil {
			return nil, fmt.Errorf("fallback entry %d: %w", i, err)
		}
		t.pairs = append(t.pairs, p)
		t.pools[gameType] = append(t.pools[gameType], p)
	}
	return t, nil
}

// ParseFallbackTable читает таблицу из YAML вида `words: [{secretWord, hintWord, category}]`.
func ParseFallbackTable(data []byte) (*FallbackTable, error) {
	var file fallbackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode fallback yaml: %w", err)
	}
	return newFallbackTable(file.Words)
}

// LoadFallbackTable загружает таблицу из файла; пустой путь означает встроенный список.
func LoadFallbackTable(path string) (*FallbackTable, error) {
	if path == "" {
		return ParseFallbackTable(defaultFallbackYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback file: %w", err)
	}
	table, err := ParseFallbackTable(data)
	if err != nil {
		return nil, fmt.Errorf("fallback file %s: %w", path, err)
	}
	return table, nil
}

// DefaultFallbackTable возвращает встроенный список. Паникует, если он поврежден.
func DefaultFallbackTable() *FallbackTable {
	table, err := ParseFallbackTable(defaultFallbackYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded fallback table: %v", err))
	}
	return table
}

func (t *FallbackTable) Len() int {
	return len(t.pairs)
}

// Pairs возвращает копию всей таблицы без разбивки по режимам.
func (t *FallbackTable) Pairs() []WordPair {
	out := make([]WordPair, len(t.pairs))
	copy(out, t.pairs)
	return out
}

// Pick выбирает случайную пару режима gameType, чей SecretWord не входит в exclude.
// Если для режима нет пар, выбор идет по всей таблице. Если исключено всё,
// исключения игнорируются. intn должна возвращать число в [0, n).
func (t *FallbackTable) Pick(gameType GameType, exclude []string, intn func(n int) int) WordPair {
	pool := t.pools[gameType]
	if len(pool) == 0 {
		pool = t.pairs
	}
	if len(exclude) > 0 {
		excluded := make(map[string]struct{}, len(exclude))
		for _, w := range exclude {
			excluded[w] = struct{}{}
		}
		available := make([]WordPair, 0, len(pool))
		for _, p := range pool {
			if _, skip := excluded[p.SecretWord]; !skip {
				available = append(available, p)
			}
		}
		if len(available) > 0 {
			pool = available
		}
	}
	return pool[intn(len(pool))]
}
