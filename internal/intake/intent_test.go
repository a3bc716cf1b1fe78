package intake

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier(0)

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"greeting", "Hola", IntentGreeting},
		{"greeting with punctuation", "¡Buenos días!", IntentGreeting},
		{"greeting buenas tardes not afternoon", "Buenas tardes", IntentGreeting},
		{"role victim", "soy víctima", IntentRoleVictim},
		{"role victim unaccented", "soy victima de un robo", IntentRoleVictim},
		{"role plaintiff", "demandante", IntentRolePlaintiff},
		{"category civil", "Mi caso es civil", IntentCategoryCivil},
		{"category labor", "es laboral", IntentCategoryLabor},
		{"category criminal", "penal", IntentCategoryCriminal},
		{"category unknown", "no sé cuál es mi categoría", IntentCategoryUnknown},
		{"category unknown short", "no sé", IntentCategoryUnknown},
		{"category unknown unsure", "no estoy seguro", IntentCategoryUnknown},
		{"affirmative", "sí", IntentAffirmative},
		{"affirmative ok", "ok", IntentAffirmative},
		{"affirmative confirmo", "confirmo", IntentAffirmative},
		{"negative", "no", IntentNegative},
		{"negative other slot", "no me viene bien", IntentNegative},
		{"afternoon", "mejor tarde", IntentPrefersAfternoon},
		{"afternoon phrase", "prefiero por la tarde", IntentPrefersAfternoon},
		{"slot day", "el miércoles", IntentSlotChoice},
		{"slot day unaccented", "miercoles", IntentSlotChoice},
		{"slot time", "a las 3:30", IntentSlotChoice},
		{"repeat", "¿puede repetir?", IntentRepeatRequest},
		{"repeat not understood", "no entendí", IntentRepeatRequest},
		{"topic role", "¿qué opciones de rol hay?", IntentTopicRole},
		{"topic categories", "¿cuáles son las categorías?", IntentTopicCategories},
		{"topic schedule", "¿qué horarios tienen?", IntentTopicSchedule},
		{"legal topic divorce", "quiero información sobre divorcio", IntentLegalTopic},
		{"legal topic custody", "es por la custodia de mis hijos", IntentLegalTopic},
		{"closing", "gracias", IntentClosing},
		{"closing done", "eso es todo", IntentClosing},
		{"restart", "empezar de nuevo", IntentRestart},
		{"restart reiniciar", "quiero reiniciar", IntentRestart},
		{"free text long description", "Me deben dinero de un contrato que firmamos hace dos años", IntentFreeText},
		{"short unmatched", "qwerty", IntentUnclassified},
		{"empty", "", IntentUnclassified},
		{"whitespace only", "   ", IntentUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Short tokens must only match on word boundaries: "no" appears inside
// "dinero" and "si" inside "necesito", and neither may derail a description.
func TestClassifyWordBoundaries(t *testing.T) {
	c := NewClassifier(0)

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"no inside dinero", "Necesito ayuda porque me deben dinero del trabajo pasado", IntentFreeText},
		{"si inside necesito", "necesito que alguien revise mi contrato de arriendo", IntentFreeText},
		{"despido inside despidieron", "Me despidieron sin causa y sin pagar la liquidación", IntentFreeText},
		{"standalone no still wins", "pues no", IntentNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// The rule list is an ordered priority table; these pin the tie-breaks.
func TestClassifyPriority(t *testing.T) {
	c := NewClassifier(0)

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"no sé before no", "no sé", IntentCategoryUnknown},
		{"no entendí before no", "no entendí", IntentRepeatRequest},
		{"empezar de nuevo before empezar", "empezar de nuevo", IntentRestart},
		{"day before sí", "sí, el lunes", IntentSlotChoice},
		{"sí before gracias", "sí, gracias", IntentAffirmative},
		{"no before gracias", "no, gracias", IntentNegative},
		{"víctima before penal", "soy víctima de un caso penal", IntentRoleVictim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Over-threshold messages beat the bare yes/no/thanks rules: a realistic
// case description nearly always contains a standalone "no". Rules earlier
// in the table still win regardless of length.
func TestClassifyLongTextBeatsWeakRules(t *testing.T) {
	c := NewClassifier(0)

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"description with standalone no", longDescription, IntentFreeText},
		{"description no me pagan", "No me pagan el salario desde hace tres meses", IntentFreeText},
		{"long thanks", "Muchas gracias por la ayuda, quedo atento a la cita", IntentFreeText},
		{"long affirmative story", "Sí, fue así como ocurrió todo aquel día", IntentFreeText},
		{"day still wins over length", "sí, me viene bien el lunes a las 10:30", IntentSlotChoice},
		{"afternoon still wins over length", "no me sirve la mañana, prefiero por la tarde", IntentPrefersAfternoon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyThreshold(t *testing.T) {
	// 21 runes of unmatched text crosses the default threshold, 20 does not.
	exactly20 := "abcde fghij klmno pq"
	over20 := exactly20 + "r"

	c := NewClassifier(0)
	if got := c.Classify(exactly20); got != IntentUnclassified {
		t.Errorf("at threshold: got %q, want unclassified", got)
	}
	if got := c.Classify(over20); got != IntentFreeText {
		t.Errorf("over threshold: got %q, want free_text", got)
	}

	// A custom threshold moves the cutoff.
	c5 := NewClassifier(5)
	if got := c5.Classify("qwerty"); got != IntentFreeText {
		t.Errorf("custom threshold: got %q, want free_text", got)
	}
}

func TestNormalizeKeepsTimeTokens(t *testing.T) {
	got := normalize("¿A las 3:30, verdad?")
	if !containsWord(got, "3:30") {
		t.Errorf("normalize lost the time token: %q", got)
	}
}
