package llmcontracts

import (
	"encoding/json"
	"fmt"
)

const (
	ContractWordPairV1 = "WORD_PAIR_V1"
)

// Contract связывает имя контракта со схемой ответа, которую мы отдаем модели.
type Contract struct {
	Name   string
	Schema json.RawMessage
}

var contractsRegistry = map[string]Contract{
	ContractWordPairV1: {
		Name:   ContractWordPairV1,
		Schema: json.RawMessage(wordPairSchemaV1),
	},
}

// Schema returns the response schema registered for the contract.
func Schema(name string) (json.RawMessage, error) {
	contract, ok := contractsRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown contract: %s", name)
	}
	out := make(json.RawMessage, len(contract.Schema))
	copy(out, contract.Schema)
	return out, nil
}

// HasContract reports whether contract is registered.
func HasContract(name string) bool {
	_, ok := contractsRegistry[name]
	return ok
}

// wordPairSchemaV1 записан в формате OpenAPI-подмножества, которое принимает
// generationConfig.responseSchema у Gemini.
const wordPairSchemaV1 = `{
  "type": "OBJECT",
  "properties": {
    "secretWord": {"type": "STRING", "description": "Das konkrete Wort"},
    "hintWord": {"type": "STRING", "description": "Die kluge Assoziation"},
    "category": {"type": "STRING", "description": "Die Unterkategorie"}
  },
  "required": ["secretWord", "hintWord", "category"]
}`
