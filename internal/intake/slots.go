package intake

import "strings"

// Slot is one candidate appointment. The catalogue is static configuration,
// not computed availability: the engine walks a cursor over it and never
// checks real calendars.
type Slot struct {
	ID        string `json:"id"`
	Day       string `json:"day"`   // "lunes", "miércoles", "viernes"
	Time      string `json:"time"`  // 24h "10:30"
	Label     string `json:"label"` // display text, e.g. "Lunes 29 de Septiembre a las 10:30 de la mañana"
	Afternoon bool   `json:"afternoon"`
}

// defaultCatalog is the standard proposal order. The first entry is always
// offered first; "no" advances the cursor and wraps around.
var defaultCatalog = []Slot{
	{ID: "mon-1030", Day: "lunes", Time: "10:30", Label: "Lunes 29 de Septiembre a las 10:30 de la mañana"},
	{ID: "wed-1530", Day: "miércoles", Time: "15:30", Label: "Miércoles 1 de Octubre a las 3:30 de la tarde", Afternoon: true},
	{ID: "fri-1100", Day: "viernes", Time: "11:00", Label: "Viernes 3 de Octubre a las 11:00 de la mañana"},
}

// afternoonCatalog replaces the default list when the caller prefers
// afternoons.
var afternoonCatalog = []Slot{
	{ID: "mon-1530", Day: "lunes", Time: "15:30", Label: "Lunes 29 de Septiembre a las 3:30 de la tarde", Afternoon: true},
	{ID: "wed-1615", Day: "miércoles", Time: "16:15", Label: "Miércoles 1 de Octubre a las 4:15 de la tarde", Afternoon: true},
	{ID: "fri-1545", Day: "viernes", Time: "15:45", Label: "Viernes 3 de Octubre a las 3:45 de la tarde", Afternoon: true},
}

// Catalog is the pair of slot lists the engine selects between.
type Catalog struct {
	Standard  []Slot
	Afternoon []Slot
}

// DefaultCatalog returns the built-in slot catalogue.
func DefaultCatalog() Catalog {
	return Catalog{Standard: defaultCatalog, Afternoon: afternoonCatalog}
}

// active returns the list the session is currently choosing from.
func (c Catalog) active(s *Session) []Slot {
	if s.AfternoonOnly {
		return c.Afternoon
	}
	return c.Standard
}

// current returns the slot under the session's cursor.
func (c Catalog) current(s *Session) Slot {
	list := c.active(s)
	if len(list) == 0 {
		return Slot{}
	}
	idx := s.SlotCursor % len(list)
	if idx < 0 {
		idx = 0
	}
	return list[idx]
}

// next advances the cursor (wrapping) and returns the new proposal.
func (c Catalog) next(s *Session) Slot {
	list := c.active(s)
	if len(list) == 0 {
		return Slot{}
	}
	s.SlotCursor = (s.SlotCursor + 1) % len(list)
	return list[s.SlotCursor]
}

// match resolves an explicit day or time token against the active list. Day
// names win over times so "sí, el miércoles a las..." lands on the day the
// caller named.
func (c Catalog) match(s *Session, text string) (Slot, bool) {
	text = normalize(text)
	list := c.active(s)
	for _, slot := range list {
		for _, day := range dayTokens(slot.Day) {
			if containsWord(text, day) {
				return slot, true
			}
		}
	}
	for _, slot := range list {
		if slot.Time != "" && strings.Contains(text, displayTime(slot.Time)) {
			return slot, true
		}
		if slot.Time != "" && strings.Contains(text, slot.Time) {
			return slot, true
		}
	}
	return Slot{}, false
}

// dayTokens returns accented and unaccented spellings for a day name.
func dayTokens(day string) []string {
	if day == "miércoles" {
		return []string{"miércoles", "miercoles"}
	}
	return []string{day}
}

// displayTime converts the catalogue's 24h time to the 12h form callers type
// ("15:30" -> "3:30").
func displayTime(t string) string {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return t
	}
	switch parts[0] {
	case "13":
		return "1:" + parts[1]
	case "14":
		return "2:" + parts[1]
	case "15":
		return "3:" + parts[1]
	case "16":
		return "4:" + parts[1]
	case "17":
		return "5:" + parts[1]
	case "18":
		return "6:" + parts[1]
	}
	return t
}
