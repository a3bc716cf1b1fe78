package intake

import "strings"

// Intent is the classified meaning of one caller message.
type Intent string

const (
	IntentUnclassified     Intent = "unclassified"
	IntentFreeText         Intent = "free_text"
	IntentGreeting         Intent = "greeting"
	IntentRoleVictim       Intent = "role_victim"
	IntentRolePlaintiff    Intent = "role_plaintiff"
	IntentCategoryCivil    Intent = "category_civil"
	IntentCategoryLabor    Intent = "category_labor"
	IntentCategoryCriminal Intent = "category_criminal"
	IntentCategoryUnknown  Intent = "category_unknown"
	IntentAffirmative      Intent = "affirmative"
	IntentNegative         Intent = "negative"
	IntentPrefersAfternoon Intent = "prefers_afternoon"
	IntentSlotChoice       Intent = "slot_choice"
	IntentRepeatRequest    Intent = "repeat_request"
	IntentTopicRole        Intent = "topic_role"
	IntentTopicCategories  Intent = "topic_categories"
	IntentTopicSchedule    Intent = "topic_schedule"
	IntentLegalTopic       Intent = "interrupting_legal_topic"
	IntentClosing          Intent = "closing"
	IntentRestart          Intent = "restart_request"
)

// intentRule pairs an intent with the keywords that trigger it. The rule list
// is evaluated strictly in order: the first rule with a matching keyword wins.
type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is an ordered priority list, not a map. The ordering is a
// deliberate tie-break policy: "no sé cuál" must resolve before the bare "no",
// "no entendí" before "no", "empezar de nuevo" before the greeting "empezar",
// and day names before the bare "sí" that often accompanies them.
var intentRules = []intentRule{
	{IntentRestart, []string{"reiniciar", "empezar de nuevo", "comenzar de nuevo", "desde el principio", "otra consulta"}},
	{IntentGreeting, []string{"hola", "buenos días", "buenos dias", "buenas tardes", "saludos", "buenos", "buenas", "iniciar", "empezar"}},
	{IntentRoleVictim, []string{"víctima", "victima"}},
	{IntentRolePlaintiff, []string{"demandante"}},
	{IntentCategoryCivil, []string{"civil"}},
	{IntentCategoryLabor, []string{"laboral"}},
	{IntentCategoryCriminal, []string{"penal"}},
	{IntentCategoryUnknown, []string{"no sé cuál", "no se cual", "no sé", "no se", "no estoy seguro", "no estoy segura"}},
	{IntentRepeatRequest, []string{"repetir", "repita", "no entendí", "no entendi", "otra vez"}},
	{IntentTopicRole, []string{"opciones de rol", "rol"}},
	{IntentTopicCategories, []string{"categorías", "categorias", "tipos de caso"}},
	{IntentTopicSchedule, []string{"horarios", "fechas"}},
	{IntentLegalTopic, []string{"divorcio", "custodia", "pensión", "pension", "herencia", "despido"}},
	{IntentPrefersAfternoon, []string{"mejor tarde", "en la tarde", "por la tarde", "tarde"}},
	{IntentSlotChoice, []string{"lunes", "miércoles", "miercoles", "viernes", "10:30", "3:30", "15:30", "4:15", "16:15", "3:45", "15:45", "11:00"}},
	{IntentAffirmative, []string{"sí", "si", "ok", "de acuerdo", "confirmo", "acepto", "vale", "perfecto", "claro"}},
	{IntentNegative, []string{"no me viene", "otro horario", "otra hora", "no"}},
	{IntentClosing, []string{"gracias", "listo", "eso es todo", "nada más", "nada mas", "adiós", "adios", "hasta luego"}},
}

// defaultDescriptionMinChars is the free-text fallback threshold: trimmed
// messages longer than this that match no keyword rule are treated as a case
// description. Matches the observed cutoff of the source flows.
const defaultDescriptionMinChars = 20

// Classifier maps free text to at most one recognized intent via the ordered
// keyword table. It is a pure function of the text and its configuration.
type Classifier struct {
	rules    []intentRule
	minChars int
}

// NewClassifier builds a classifier with the default rule table.
// descriptionMinChars <= 0 selects the default threshold.
func NewClassifier(descriptionMinChars int) *Classifier {
	if descriptionMinChars <= 0 {
		descriptionMinChars = defaultDescriptionMinChars
	}
	return &Classifier{rules: intentRules, minChars: descriptionMinChars}
}

// weakIntents are the yes/no/thanks rules that lose to the length fallback.
// Real case descriptions almost always carry a standalone "no" ("no me
// pagan", "no me responden") or a "gracias"; a message over the threshold is
// a description, not an answer, no matter which of these words it contains.
var weakIntents = map[Intent]bool{
	IntentAffirmative: true,
	IntentNegative:    true,
	IntentClosing:     true,
}

// Classify returns the first matching intent, IntentFreeText for long
// unmatched messages, or IntentUnclassified. Over-threshold messages whose
// only match is a weak rule also classify as free text.
func (c *Classifier) Classify(text string) Intent {
	longText := len([]rune(strings.TrimSpace(text))) > c.minChars
	normalized := normalize(text)
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if containsWord(normalized, kw) {
				if longText && weakIntents[rule.intent] {
					return IntentFreeText
				}
				return rule.intent
			}
		}
	}
	if longText {
		return IntentFreeText
	}
	return IntentUnclassified
}

// normalize lowercases the text and replaces punctuation with spaces so that
// keyword matching works on word boundaries. Colons survive so time tokens
// like "3:30" stay intact.
func normalize(text string) string {
	text = strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '.', ',', ';', '!', '?', '¿', '¡', '"', '\'', '(', ')', '\n', '\t':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsWord reports whether the keyword appears in the normalized text on
// word boundaries. Short tokens like "no" or "si" would otherwise match
// inside words ("dinero", "necesito") and derail long descriptions.
func containsWord(normalized, keyword string) bool {
	padded := " " + strings.Join(strings.Fields(normalized), " ") + " "
	return strings.Contains(padded, " "+keyword+" ")
}
