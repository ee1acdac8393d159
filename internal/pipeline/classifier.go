package pipeline

import "regexp"

// Signal regexes carry both Russian and Hebrew phrasings. Compiled once;
// matching is case-insensitive over the raw text.
var (
	lostRE    = regexp.MustCompile(`(?i)מצאתי|לא רלוונטי|не актуально|отмена|не нужен|дорого`)
	wonRE     = regexp.MustCompile(`(?i)סגור|יאללה|קובעים|готов|беру|подходит|закрываем`)
	handoffRE = regexp.MustCompile(`(?i)תן לי רגע לבדוק|אבדוק ואחזור|передам|вернусь с ответом`)
)

// classifierRule is one step of the evaluation ladder. Rules run in order
// and the first match wins; keeping them in a table keeps the ordering
// contract auditable.
type classifierRule struct {
	name    string
	matches func(text string, f *Facts, current Status) bool
	status  Status
}

// The fact-driven rules are gated on the session not being lost: facts are
// monotonic, so once a session has service+date+city every later message
// would re-qualify it. A lost session exits only on an explicit won or
// handoff signal in the text.
var classifierRules = []classifierRule{
	{
		name:    "lost",
		matches: func(text string, _ *Facts, _ Status) bool { return lostRE.MatchString(text) },
		status:  StatusLost,
	},
	{
		name:    "won",
		matches: func(text string, _ *Facts, _ Status) bool { return wonRE.MatchString(text) },
		status:  StatusWon,
	},
	{
		name: "handoff",
		matches: func(text string, _ *Facts, _ Status) bool {
			return handoffRE.MatchString(text) || MentionsOutOfScopeService(text)
		},
		status: StatusNeedHuman,
	},
	{
		name: "offer_sent",
		matches: func(_ string, f *Facts, current Status) bool {
			return current != StatusLost && len(f.Services) > 0 && f.Date != "" && f.City != "" && f.WantsPrice
		},
		status: StatusOfferSent,
	},
	{
		name: "qualified",
		matches: func(_ string, f *Facts, current Status) bool {
			return current != StatusLost && len(f.Services) > 0 && f.Date != "" && f.City != ""
		},
		status: StatusQualified,
	},
}

// Evaluate classifies the latest utterance against the collected facts.
// Pure and side-effect-free: facts are read, never mutated. When no rule
// matches, the current status is kept as an explicit no-transition default.
func Evaluate(text string, f *Facts, current Status) Status {
	for _, rule := range classifierRules {
		if rule.matches(text, f, current) {
			return rule.status
		}
	}
	return current
}
