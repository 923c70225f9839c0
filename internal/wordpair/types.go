package wordpair

import (
	"fmt"
	"strings"
)

// RandomCategory — значение категории, при котором модель выбирает тему сама.
const RandomCategory = "Zufall"

// WordPair — результат одного раунда: слово для «своих» и подсказка для импостора.
// В режиме GameTypeQuestionMix оба поля содержат вопросы.
type WordPair struct {
	SecretWord string `json:"secretWord" yaml:"secretWord"`
	HintWord   string `json:"hintWord"   yaml:"hintWord"`
	Category   string `json:"category"   yaml:"category"`
}

type GameType string

const (
	GameTypeImpostor    GameType = "impostor"
	GameTypeQuestionMix GameType = "question_mix"
)

// ParseGameType принимает пустую строку как режим по умолчанию.
func ParseGameType(raw string) (GameType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(GameTypeImpostor):
		return GameTypeImpostor, nil
	case string(GameTypeQuestionMix), "fragen_mix", "mix":
		return GameTypeQuestionMix, nil
	default:
		return "", fmt.Errorf("unknown game type %q", raw)
	}
}

// Request — параметры одной генерации.
type Request struct {
	Category     string
	GameType     GameType
	ExcludeWords []string
}

// Normalize подставляет значения по умолчанию.
func (r Request) Normalize() Request {
	r.Category = strings.TrimSpace(r.Category)
	if IsRandomCategory(r.Category) {
		r.Category = RandomCategory
	}
	if r.GameType == "" {
		r.GameType = GameTypeImpostor
	}
	return r
}

// IsRandomCategory сообщает, просит ли вызывающий код выбрать категорию за него.
func IsRandomCategory(category string) bool {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "", "zufall", "random":
		return true
	}
	return false
}

type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Outcome описывает, откуда взялась пара. Failure заполнен только для SourceFallback.
type Outcome struct {
	Pair    WordPair
	Source  Source
	Failure *GenerationError
}
