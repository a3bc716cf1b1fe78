package intake

import "fmt"

// Response texts for the TusAbogados intake flow. All caller-facing copy is
// Spanish; the narration layer receives these strings verbatim.

const welcomeRoleFirst = `¡Bienvenido a TusAbogados.com! Para orientarle mejor, necesito saber su rol en el caso.

Por ejemplo:
- Si sufrió un accidente o le deben dinero, sería "víctima"
- Si quiere demandar a alguien por incumplimiento, sería "demandante"

¿Cuál es su situación: víctima o demandante?`

const welcomeNameFirst = `¡Bienvenido a TusAbogados.com! Para comenzar, ¿me indica su nombre, por favor?`

const askRoleAfterName = `Gracias, %s. Para orientarle mejor, necesito saber su rol en el caso.

Por ejemplo:
- Si sufrió un accidente o le deben dinero, sería "víctima"
- Si quiere demandar a alguien por incumplimiento, sería "demandante"

¿Cuál es su situación: víctima o demandante?`

const categoryPromptVictim = `Entiendo que es víctima. Ahora necesito saber el tipo de caso.

Por ejemplo:
- "Civil": problemas familiares, contratos, propiedades
- "Laboral": despido, acoso, derechos laborales
- "Penal": robos, agresiones, estafas
- "No sé cuál es mi categoría": si no está seguro

¿En qué categoría está su caso?`

const categoryPromptPlaintiff = `Entiendo que es demandante. Ahora necesito saber el tipo de caso.

Por ejemplo:
- "Civil": divorcio, herencias, contratos
- "Laboral": demanda por despido, liquidación
- "Penal": denuncia por agresión, estafa
- "No sé cuál es mi categoría": si no está seguro

¿En qué categoría está su caso?`

var descriptionPrompts = map[Category]string{
	CategoryCivil:       "Caso civil registrado. Cuénteme brevemente: ¿qué problema tiene con contratos, familia o propiedades?",
	CategoryLabor:       "Caso laboral registrado. Cuénteme brevemente: ¿qué situación tiene con su trabajo o empleador?",
	CategoryCriminal:    "Caso penal registrado. Cuénteme brevemente: ¿qué hecho delictivo o infracción ocurrió?",
	CategoryUnspecified: "No hay problema. Cuénteme brevemente qué está sucediendo y le ayudo a identificar la categoría.",
}

const askEmail = `Gracias por la información. Un abogado especializado revisará su caso.

Para enviarle los detalles de la cita, ¿me indica su correo electrónico?`

const askEmailAgain = "Ese correo no parece válido. ¿Me lo repite, por favor? Debe incluir una arroba y un punto."

const askPhone = "Perfecto. ¿Y un teléfono de contacto?"

const askPhoneAgain = "Ese teléfono no parece válido. ¿Me indica un número con al menos siete dígitos?"

const feeDisclosure = `Gracias por la información. Un abogado especializado revisará su caso.

Le propongo el primer horario disponible:
¿Le viene bien el %s?

Responda "sí" para confirmar, "no" para otro horario, o "mejor tarde" si prefiere la tarde.`

const slotCounterProposal = `Entiendo. Le propongo:
%s.

¿Le funciona este horario?`

const afternoonList = `De acuerdo. Horarios de tarde disponibles:
- %s
- %s
- %s

¿Cuál prefiere?`

const confirmationBody = `¡Perfecto! Cita confirmada para el %s.

Recuerde: si su caso supera los 10 millones, no hay costo inicial. Solo paga el 10%% si recuperamos su dinero.

Recibirá un correo con los detalles. ¿Necesita algo más?`

const closingMessage = "Ha sido un placer ayudarle. Si necesita algo más, estoy aquí. ¡Que tenga un excelente día!"

const closedMessage = "Su consulta ya fue cerrada. Si desea iniciar una nueva, escriba \"empezar de nuevo\"."

const confirmedAck = "Tomo nota. Un abogado revisará ese detalle junto con su caso. ¿Necesita algo más?"

const deferLegalTopic = "Entiendo su consulta. Para darle una respuesta precisa, necesito primero completar su registro. ¿Podemos continuar con la información del caso?"

const restartAck = "He reiniciado su consulta. Cuando quiera comenzar de nuevo, salúdeme con \"hola\"."

const infoRole = "Las opciones son: víctima (si sufrió un daño) o demandante (si inicia una demanda). ¿Cuál es su caso?"

const infoCategories = "Categorías: civil (familia, contratos), laboral (trabajo), penal (delitos), o no sé cuál es. ¿En cuál está su caso?"

const infoSchedule = "Horarios disponibles: Lunes 29, Miércoles 1 o Viernes 3. ¿Qué día le viene mejor?"

// defaultGuidance rotates with the session's turn count so repeated misses
// don't sound like a broken record.
var defaultGuidance = []string{
	"¿Podría ser más específico? Necesito esta información para agendar su cita con el abogado.",
	"Disculpe, no le entendí bien. %s",
	"Para avanzar con su cita necesito ese dato. %s",
}

// missingFieldHints names the datum each stage is waiting for, used in the
// guidance rotation and for repeat requests.
var missingFieldHints = map[Stage]string{
	StageGreeting:            "Escriba \"hola\" para comenzar.",
	StageAwaitingName:        "¿Me indica su nombre, por favor?",
	StageAwaitingRole:        "¿Es usted víctima o demandante?",
	StageAwaitingCategory:    "¿Su caso es civil, laboral o penal? Si no está seguro, dígame \"no sé\".",
	StageAwaitingDescription: "Cuénteme brevemente qué sucedió.",
	StageAwaitingEmail:       "¿Me indica su correo electrónico?",
	StageAwaitingPhone:       "¿Me indica un teléfono de contacto?",
	StageAwaitingSlotChoice:  "Responda \"sí\", \"no\" o \"mejor tarde\".",
	StageConfirmed:           "Su cita ya está confirmada. ¿Necesita algo más?",
	StageClosed:              closedMessage,
}

// stagePrompt re-emits the question appropriate to the current stage for
// repeat requests. Keyed by stage so asking twice in a row repeats the same
// prompt without touching any state.
func stagePrompt(s *Session) string {
	switch s.Stage {
	case StageGreeting:
		return missingFieldHints[StageGreeting]
	case StageAwaitingName:
		return welcomeNameFirst
	case StageAwaitingRole:
		return infoRole
	case StageAwaitingCategory:
		if s.Role == RolePlaintiff {
			return categoryPromptPlaintiff
		}
		return categoryPromptVictim
	case StageAwaitingDescription:
		if p, ok := descriptionPrompts[s.Category]; ok {
			return p
		}
		return missingFieldHints[StageAwaitingDescription]
	case StageAwaitingEmail:
		return askEmail
	case StageAwaitingPhone:
		return askPhone
	case StageAwaitingSlotChoice:
		if s.ProposedSlot != nil {
			return fmt.Sprintf(slotCounterProposal, s.ProposedSlot.Label)
		}
		return infoSchedule
	case StageConfirmed:
		return missingFieldHints[StageConfirmed]
	default:
		return closedMessage
	}
}

// confirmationMessage renders the booking confirmation, echoing whatever
// contact details were collected.
func confirmationMessage(s *Session) string {
	msg := fmt.Sprintf(confirmationBody, s.ConfirmedSlot.Label)
	if s.Email != "" || s.Phone != "" {
		contact := "\n\nDatos de contacto registrados:"
		if s.Name != "" {
			contact += "\n- Nombre: " + s.Name
		}
		if s.Email != "" {
			contact += "\n- Correo: " + s.Email
		}
		if s.Phone != "" {
			contact += "\n- Teléfono: " + s.Phone
		}
		msg += contact
	}
	return msg
}

// guidance picks the rotating default response for unclassified input.
func guidance(s *Session) string {
	hint := missingFieldHints[s.Stage]
	tmpl := defaultGuidance[s.TurnCount%len(defaultGuidance)]
	if tmpl == defaultGuidance[0] {
		return tmpl
	}
	return fmt.Sprintf(tmpl, hint)
}
