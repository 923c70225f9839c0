package wordpair

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptModesAreExclusive(t *testing.T) {
	impostor := BuildPrompt(Request{Category: RandomCategory, GameType: GameTypeImpostor}, "abstrakt", "t0k3n").Text()
	mix := BuildPrompt(Request{Category: RandomCategory, GameType: GameTypeQuestionMix}, "abstrakt", "t0k3n").Text()

	assert.Contains(t, impostor, "KEINE SYNONYME")
	assert.Contains(t, impostor, "SCHLECHTE BEISPIELE")
	assert.NotContains(t, impostor, "Frage A")

	assert.Contains(t, mix, "'secretWord' ist Frage A, 'hintWord' ist Frage B.")
	assert.NotContains(t, mix, "KEINE SYNONYME")
	assert.NotContains(t, mix, "SCHLECHTE BEISPIELE")
}

func TestBuildPromptImpostorCategoryDirective(t *testing.T) {
	random := BuildPrompt(Request{Category: RandomCategory, GameType: GameTypeImpostor}, "funktional", "x").User
	chosen := BuildPrompt(Request{Category: "Tiere", GameType: GameTypeImpostor}, "funktional", "x").User

	assert.True(t, strings.HasPrefix(random, "Wähle eine spannende, bekannte Kategorie."))
	assert.True(t, strings.HasPrefix(chosen, "Nutze die Kategorie 'Tiere'."))
}

func TestBuildPromptInjectsVibeAndToken(t *testing.T) {
	impostor := BuildPrompt(Request{Category: RandomCategory}, "alltäglich", "q9z1x").User
	assert.Contains(t, impostor, "VIBE: alltäglich.")
	assert.Contains(t, impostor, "SEED: q9z1x.")

	mix := BuildPrompt(Request{Category: "Urlaub", GameType: GameTypeQuestionMix}, "abstrakt", "q9z1x").User
	assert.Contains(t, mix, "KATEGORIE: Urlaub. VIBE: abstrakt.")
	assert.Contains(t, mix, "ENTROPIE-TOKEN: q9z1x.")
}

func TestBuildPromptExclusionDirective(t *testing.T) {
	for _, gameType := range []GameType{GameTypeImpostor, GameTypeQuestionMix} {
		without := BuildPrompt(Request{Category: RandomCategory, GameType: gameType}, "v", "t").Text()
		assert.NotContains(t, without, "VERMEIDE")

		with := BuildPrompt(Request{
			Category:     RandomCategory,
			GameType:     gameType,
			ExcludeWords: []string{"Apfel", "Kaffee"},
		}, "v", "t").Text()
		assert.Contains(t, with, "VERMEIDE DIESE WÖRTER: Apfel, Kaffee")
	}
}

func TestRequestNormalize(t *testing.T) {
	req := Request{Category: "  random "}.Normalize()
	assert.Equal(t, RandomCategory, req.Category)
	assert.Equal(t, GameTypeImpostor, req.GameType)

	req = Request{Category: " Sport ", GameType: GameTypeQuestionMix}.Normalize()
	assert.Equal(t, "Sport", req.Category)
	assert.Equal(t, GameTypeQuestionMix, req.GameType)
}

func TestParseGameType(t *testing.T) {
	cases := map[string]GameType{
		"":             GameTypeImpostor,
		"IMPOSTOR":     GameTypeImpostor,
		"question_mix": GameTypeQuestionMix,
		"fragen_mix":   GameTypeQuestionMix,
	}
	for raw, want := range cases {
		got, err := ParseGameType(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseGameType("charades")
	assert.Error(t, err)
}
