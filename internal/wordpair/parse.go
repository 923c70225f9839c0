package wordpair

import (
	"errors"
	"strings"

	"familytime/internal/llmcontracts"
)

var errEmptyText = errors.New("model returned no text")

// parsePair превращает текст ответа модели в WordPair по контракту contract.
// Отсутствующий hintWord становится пустой строкой, а не ошибкой.
func parsePair(contract, text string) (WordPair, error) {
	if strings.TrimSpace(text) == "" {
		return WordPair{}, failure(FailureEmptyResponse, errEmptyText)
	}

	res, err := llmcontracts.Validate(contract, text)
	if err != nil {
		return WordPair{}, failure(FailureMalformedPayload, err)
	}
	if !res.IsValid {
		return WordPair{}, failure(FailureMalformedPayload, errors.New(strings.Join(res.Errors, "; ")))
	}

	pair := WordPair{
		SecretWord: strings.TrimSpace(*res.Parsed.SecretWord),
		Category:   strings.TrimSpace(*res.Parsed.Category),
	}
	if res.Parsed.HintWord != nil {
		pair.HintWord = strings.TrimSpace(*res.Parsed.HintWord)
	}
	return pair, nil
}
