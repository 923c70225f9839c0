package wordpair

import (
	"fmt"
	"strings"
)

// Vibes — набор «настроений», один из которых случайно попадает в промпт.
// Смысловой нагрузки нет, только разнообразие ответов.
var Vibes = []string{"wesentlich", "funktional", "konzeptionell", "abstrakt", "alltäglich"}

// Prompt — системная и пользовательская части запроса.
type Prompt struct {
	System string
	User   string
}

// Text склеивает обе части в один текст, как его получает модель.
func (p Prompt) Text() string {
	return p.System + "\n\n" + p.User
}

// BuildPrompt собирает промпт для режима req.GameType.
// req должен быть нормализован (см. Request.Normalize).
func BuildPrompt(req Request, vibe, token string) Prompt {
	exclusion := exclusionDirective(req.ExcludeWords)
	if req.GameType == GameTypeQuestionMix {
		return questionMixPrompt(req.Category, vibe, token, exclusion)
	}
	return impostorPrompt(req.Category, vibe, token, exclusion)
}

func exclusionDirective(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return "VERMEIDE DIESE WÖRTER: " + strings.Join(words, ", ")
}

func questionMixPrompt(category, vibe, token, exclusion string) Prompt {
	var user strings.Builder
	user.WriteString("Generiere zwei Fragen (Deutsch), die ähnliche Antworten provozieren.\n")
	fmt.Fprintf(&user, "KATEGORIE: %s. VIBE: %s.\n", category, vibe)
	fmt.Fprintf(&user, "ENTROPIE-TOKEN: %s.\n", token)
	if exclusion != "" {
		user.WriteString(exclusion + "\n")
	}
	user.WriteString("ANFORDERUNGEN: 'secretWord' ist Frage A, 'hintWord' ist Frage B.")

	return Prompt{
		System: questionMixSystem,
		User:   user.String(),
	}
}

func impostorPrompt(category, vibe, token, exclusion string) Prompt {
	categoryDirective := "Wähle eine spannende, bekannte Kategorie."
	if !IsRandomCategory(category) {
		categoryDirective = fmt.Sprintf("Nutze die Kategorie '%s'.", category)
	}

	system := strings.Replace(impostorSystemTemplate, "{{EXCLUSION}}", exclusion, 1)
	user := fmt.Sprintf(impostorUserTemplate, categoryDirective, vibe, token)

	return Prompt{System: system, User: user}
}

const questionMixSystem = "Du bist ein extrem kreativer Spiele-Autor. Erstelle zwei unterschiedliche, aber perfekt vergleichbare Fragen."

const impostorSystemTemplate = `Du bist ein brillanter Spiele-Designer. Generiere ein deutsches Wortpaar für ein Assoziationsspiel.

ZIEL: Ein konkretes 'secretWord' und ein cleveres, assoziatives 'hintWord'.

STRIKTE REGELN FÜR DAS HILFSWORT (hintWord):
1. KEINE SYNONYME: Wenn das Wort 'Apfel' ist, darf das Hilfswort NICHT 'Birne', 'Obst' oder 'Frucht' sein.
2. KONZEPTIONELLER ANSATZ: Wähle Wörter, die eine Eigenschaft, eine Funktion oder einen abstrakten Kontext beschreiben.
3. EINFACH ABER GUT: Das Hilfswort soll dem Impostor helfen, vage zu bleiben, ohne das Wort direkt zu nennen.

{{EXCLUSION}}

GUTE BEISPIELE (So sollst du es machen):
- Secret: 'Spiegel' -> Hint: 'Physik' (Weil Lichtbrechung)
- Secret: 'Spiegel' -> Hint: 'Sehen' (Weil Funktion)
- Secret: 'Spiegel' -> Hint: 'Eitelkeit' (Weil Kontext)
- Secret: 'Apfel' -> Hint: 'Sünde' (Kultureller Kontext)
- Secret: 'Apfel' -> Hint: 'Gesund' (Eigenschaft)
- Secret: 'Kaffee' -> Hint: 'Röstung' (Prozess)
- Secret: 'Auto' -> Hint: 'Mobilität' (Konzept)
- Secret: 'Sonne' -> Hint: 'Vitamin D' (Wirkung)

SCHLECHTE BEISPIELE (NIEMALS SO):
- 'Apfel' -> 'Birne' (Falsch, zu ähnlich)
- 'Katze' -> 'Hund' (Falsch, zu ähnlich)
- 'Auto' -> 'LKW' (Falsch, zu ähnlich)

Antworte nur mit einem validen JSON-Objekt.`

const impostorUserTemplate = `%s
VIBE: %s.
SEED: %s.

ANFORDERUNGEN:
- 'secretWord': Das konkrete Ding.
- 'hintWord': Die kluge, einfache Assoziation (Konzept/Funktion).
- Beide Wörter müssen KURZ (1 Wort) und auf DEUTSCH sein.`
