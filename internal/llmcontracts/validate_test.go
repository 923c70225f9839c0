package llmcontracts

import (
	"encoding/json"
	"testing"
)

func TestValidateWordPairSuccess(t *testing.T) {
	raw := `{"secretWord":"Spiegel","hintWord":"Physik","category":"Alltag"}`

	res, err := Validate(ContractWordPairV1, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsValid {
		t.Fatalf("expected valid result, got errors: %+v", res.Errors)
	}
	if *res.Parsed.SecretWord != "Spiegel" || *res.Parsed.HintWord != "Physik" || *res.Parsed.Category != "Alltag" {
		t.Fatalf("unexpected payload: %+v", res.Parsed)
	}
}

func TestValidateWordPairMissingHintIsValid(t *testing.T) {
	res := ValidateWordPair(`{"secretWord":"Apfel","category":"Essen"}`)
	if !res.IsValid {
		t.Fatalf("expected valid result, got errors: %+v", res.Errors)
	}
	if res.Parsed.HintWord != nil {
		t.Fatalf("expected hintWord to be absent")
	}
}

func TestValidateWordPairRejects(t *testing.T) {
	cases := map[string]string{
		"empty":            "   ",
		"not json":         "Hier ist dein Wortpaar: Apfel",
		"missing secret":   `{"hintWord":"Sünde","category":"Essen"}`,
		"blank secret":     `{"secretWord":"  ","hintWord":"Sünde","category":"Essen"}`,
		"missing category": `{"secretWord":"Apfel","hintWord":"Sünde"}`,
		"wrong type":       `{"secretWord":42,"hintWord":"Sünde","category":"Essen"}`,
		"two objects":      `{"secretWord":"Apfel","category":"Essen"}{"secretWord":"Birne","category":"Essen"}`,
		"array":            `[{"secretWord":"Apfel","category":"Essen"}]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			res := ValidateWordPair(raw)
			if res.IsValid {
				t.Fatalf("expected invalid result for %q", raw)
			}
			if len(res.Errors) == 0 {
				t.Fatalf("expected validation errors")
			}
		})
	}
}

func TestValidateUnknownContract(t *testing.T) {
	if _, err := Validate("NOPE", "{}"); err == nil {
		t.Fatalf("expected error for unknown contract")
	}
	if _, err := Schema("NOPE"); err == nil {
		t.Fatalf("expected schema error for unknown contract")
	}
	if HasContract("NOPE") || !HasContract(ContractWordPairV1) {
		t.Fatalf("unexpected registry contents")
	}
}

func TestWordPairSchemaRequiresAllFields(t *testing.T) {
	var schema struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	raw, err := Schema(ContractWordPairV1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if schema.Type != "OBJECT" {
		t.Fatalf("unexpected schema type: %s", schema.Type)
	}
	for _, field := range []string{"secretWord", "hintWord", "category"} {
		if _, ok := schema.Properties[field]; !ok {
			t.Fatalf("schema misses property %s", field)
		}
	}
	if len(schema.Required) != 3 {
		t.Fatalf("expected 3 required fields, got %v", schema.Required)
	}
}
