package llmcontracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WordPairPayload соответствует ответу модели по контракту WORD_PAIR_V1.
// HintWord — указатель: отсутствующее поле отличается от пустой строки.
type WordPairPayload struct {
	SecretWord *string `json:"secretWord"`
	HintWord   *string `json:"hintWord"`
	Category   *string `json:"category"`
}

// ValidationResult carries validation details.
type ValidationResult struct {
	IsValid bool
	Errors  []string
	Parsed  *WordPairPayload
}

// Validate checks LLM response against registered contract.
func Validate(contractName string, llmText string) (ValidationResult, error) {
	if !HasContract(contractName) {
		return ValidationResult{}, fmt.Errorf("unknown contract: %s", contractName)
	}
	return ValidateWordPair(llmText), nil
}

// ValidateWordPair разбирает текст ответа и проверяет обязательные поля.
// Пустой hintWord допустим: вызывающий код сам приводит его к "".
func ValidateWordPair(llmText string) ValidationResult {
	result := ValidationResult{}

	raw := strings.TrimSpace(llmText)
	if raw == "" {
		result.Errors = append(result.Errors, "empty model response")
		return result
	}

	dec := json.NewDecoder(strings.NewReader(raw))

	var payload WordPairPayload
	if err := dec.Decode(&payload); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid JSON: %v", err))
		return result
	}
	if err := ensureSingleJSON(dec); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	result.Parsed = &payload
	result.Errors = append(result.Errors, validateWordPair(&payload)...)
	result.IsValid = len(result.Errors) == 0
	return result
}

func ensureSingleJSON(dec *json.Decoder) error {
	if dec.More() {
		return fmt.Errorf("response contains more than one JSON value")
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); err != nil && err != io.EOF {
		return fmt.Errorf("trailing data after JSON: %v", err)
	}
	if len(bytes.TrimSpace(extra)) > 0 {
		return fmt.Errorf("trailing data after JSON")
	}
	return nil
}

func validateWordPair(p *WordPairPayload) []string {
	var errs []string
	if p.SecretWord == nil || strings.TrimSpace(*p.SecretWord) == "" {
		errs = append(errs, "secretWord is required")
	}
	if p.Category == nil || strings.TrimSpace(*p.Category) == "" {
		errs = append(errs, "category is required")
	}
	return errs
}
