package pipeline

import (
	"regexp"
	"strings"
)

// ServiceID identifies one of the services the business sells.
type ServiceID string

const (
	ServiceMagnets    ServiceID = "magnets"
	ServiceBalloons   ServiceID = "balloons"
	ServicePhotobooth ServiceID = "photobooth"
	ServiceShooting   ServiceID = "shooting"
)

// Facts is the per-session aggregate of everything the visitor has declared.
// Fields are monotonic: they are only ever set, never cleared. A brand-new
// session starts from the zero value.
type Facts struct {
	Language   string      `json:"lang"`
	Services   []ServiceID `json:"services"`
	EventType  string      `json:"event_type,omitempty"`
	Date       string      `json:"date,omitempty"`
	City       string      `json:"city,omitempty"`
	WantsPrice bool        `json:"wants_price"`
}

// HasService reports whether the service was already detected.
func (f *Facts) HasService(id ServiceID) bool {
	for _, s := range f.Services {
		if s == id {
			return true
		}
	}
	return false
}

func (f *Facts) addService(id ServiceID) {
	if !f.HasService(id) {
		f.Services = append(f.Services, id)
	}
}

// servicePattern maps detection keywords to a service and its display labels.
// Ordered; all matching entries apply (a message can name several services).
type servicePattern struct {
	id       ServiceID
	keywords []string
	labels   map[string]string // language -> label
}

var servicePatterns = []servicePattern{
	{ServiceMagnets, []string{"магнит", "magnit", "מגנט"}, map[string]string{"ru": "магниты", "he": "מגנטים"}},
	{ServiceBalloons, []string{"шар", "balloon", "בלון"}, map[string]string{"ru": "шары", "he": "בלונים"}},
	{ServicePhotobooth, []string{"фотобуд", "фото буд", "будка", "photobooth", "פוטובות", "פוטו בות"}, map[string]string{"ru": "фотобудка", "he": "פוטובות"}},
	{ServiceShooting, []string{"съемк", "съёмк", "фотограф", "фотосесс", "видео", "צילום"}, map[string]string{"ru": "съёмка", "he": "צילום"}},
}

// eventTypePattern maps keywords to an event-type label per language.
type eventTypePattern struct {
	keywords []string
	labels   map[string]string
}

var eventTypePatterns = []eventTypePattern{
	{[]string{"свад", "wedding", "חתונ"}, map[string]string{"ru": "свадьба", "he": "חתונה"}},
	{[]string{"бар-миц", "бат-миц", "бар", "бат", "מצו"}, map[string]string{"ru": "бар/бат-мицва", "he": "בר/בת מצווה"}},
	{[]string{"корп", "ивент", "event", "אירוע חברה"}, map[string]string{"ru": "корпоратив", "he": "אירוע חברה"}},
	{[]string{"день рож", "birthday", "יומול", "יום הולדת"}, map[string]string{"ru": "день рождения", "he": "יום הולדת"}},
}

// cityPattern maps keywords to a canonical city label.
type cityPattern struct {
	keywords []string
	label    string
}

var cityPatterns = []cityPattern{
	{[]string{"тель", "tel aviv", "תל", `ת"א`}, "Тель-Авив"},
	{[]string{"хайф", "хаиф", "haifa", "חיפ"}, "Хайфа"},
	{[]string{"иерус", "jerusalem", "ירוש"}, "Иерусалим"},
	{[]string{"ашдод", "אשדוד"}, "Ашдод"},
	{[]string{"ашкел", "אשקל"}, "Ашкелон"},
	{[]string{"нетан", "נתני"}, "Нетания"},
	{[]string{"ришон", "риша", "ראשון"}, "Ришон-ле-Цион"},
	{[]string{"бат ям", "בת ים"}, "Бат-Ям"},
}

var priceKeywords = []string{"цена", "стоим", "сколько", "прайс", "מחיר", "כמה", "עלות"}

// outOfScopeKeywords name services the business does not offer; a hit routes
// the lead to a human.
var outOfScopeKeywords = []string{
	"кейтер", "ведущ", "dj", "диджей", "аниматор",
	"аренда зала", "сцена", "свет", "звук", "decor", "декор",
}

var (
	dateRE   = regexp.MustCompile(`\b\d{1,2}[./-]\d{1,2}(?:[./-]\d{2,4})?`)
	hebrewRE = regexp.MustCompile(`[א-ת]`)
)

// DetectLanguage returns "he" when the text contains Hebrew script, else "ru".
func DetectLanguage(text string) string {
	if hebrewRE.MatchString(text) {
		return "he"
	}
	return "ru"
}

// Extract applies all fact-extraction tables to one inbound message,
// updating facts in place. Extraction is monotonic and runs before
// classification: the classifier reads facts but never writes them.
func Extract(f *Facts, text string) {
	lowered := strings.ToLower(text)

	f.Language = DetectLanguage(text)

	for _, sp := range servicePatterns {
		for _, kw := range sp.keywords {
			if strings.Contains(lowered, kw) {
				f.addService(sp.id)
				break
			}
		}
	}

	for _, ev := range eventTypePatterns {
		for _, kw := range ev.keywords {
			if strings.Contains(lowered, kw) {
				f.EventType = labelFor(ev.labels, f.Language)
				break
			}
		}
	}

	for _, cp := range cityPatterns {
		for _, kw := range cp.keywords {
			if strings.Contains(lowered, kw) {
				f.City = cp.label
				break
			}
		}
	}

	if m := dateRE.FindString(text); m != "" {
		f.Date = m
	}

	// Price intent is sticky for the life of the session.
	if !f.WantsPrice {
		for _, kw := range priceKeywords {
			if strings.Contains(lowered, kw) {
				f.WantsPrice = true
				break
			}
		}
	}
}

// MentionsOutOfScopeService reports whether the text names a service the
// business does not offer.
func MentionsOutOfScopeService(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range outOfScopeKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// ServiceLabels renders the detected services in the given language,
// preserving detection order.
func ServiceLabels(services []ServiceID, lang string) []string {
	var labels []string
	for _, id := range services {
		for _, sp := range servicePatterns {
			if sp.id == id {
				labels = append(labels, labelFor(sp.labels, lang))
				break
			}
		}
	}
	return labels
}

func labelFor(labels map[string]string, lang string) string {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels["ru"]
}
