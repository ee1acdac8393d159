package pipeline

import "testing"

func TestEvaluateRuleOrder(t *testing.T) {
	full := &Facts{
		Services:   []ServiceID{ServiceMagnets},
		Date:       "15.06",
		City:       "Тель-Авив",
		WantsPrice: true,
	}

	tests := []struct {
		name    string
		text    string
		facts   *Facts
		current Status
		want    Status
	}{
		{"lost russian", "не актуально, спасибо", full, StatusOfferSent, StatusLost},
		{"lost expensive", "дорого", full, StatusOfferSent, StatusLost},
		{"lost hebrew", "מצאתי מישהו אחר", full, StatusNew, StatusLost},
		{"lost beats won", "дорого, но беру", full, StatusNew, StatusLost},
		{"won russian", "хорошо, беру", full, StatusOfferSent, StatusWon},
		{"won hebrew", "יאללה סוגרים", &Facts{}, StatusNew, StatusWon},
		{"handoff phrase", "передам мужу и вернусь", full, StatusNew, StatusNeedHuman},
		{"handoff out of scope", "а диджей у вас есть?", full, StatusNew, StatusNeedHuman},
		{"offer sent", "понял", full, StatusNew, StatusOfferSent},
		{"qualified without price", "понял", &Facts{Services: []ServiceID{ServiceBalloons}, Date: "1.07", City: "Хайфа"}, StatusNew, StatusQualified},
		{"no rule keeps current", "понял", &Facts{}, StatusSupport, StatusSupport},
		{"no rule keeps new", "привет", &Facts{}, StatusNew, StatusNew},
		{"full facts keep lost", "понял", full, StatusLost, StatusLost},
		{"facts without price keep lost", "понял", &Facts{Services: []ServiceID{ServiceBalloons}, Date: "1.07", City: "Хайфа"}, StatusLost, StatusLost},
		{"won exits lost", "хорошо, беру", full, StatusLost, StatusWon},
		{"handoff exits lost", "передам мужу и вернусь", full, StatusLost, StatusNeedHuman},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.text, tt.facts, tt.current); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestEvaluateDoesNotMutateFacts(t *testing.T) {
	f := &Facts{Services: []ServiceID{ServiceMagnets}, Date: "15.06", City: "Хайфа"}
	before := *f
	Evaluate("не актуально", f, StatusNew)
	if f.Date != before.Date || f.City != before.City || len(f.Services) != len(before.Services) {
		t.Error("Evaluate mutated facts")
	}
}

func TestEvaluateQualificationFlow(t *testing.T) {
	var f Facts
	current := StatusNew

	Extract(&f, "Здравствуйте, нужны магниты и шары на 15.06 в Тель-Авиве, сколько стоит?")
	current = Evaluate("Здравствуйте, нужны магниты и шары на 15.06 в Тель-Авиве, сколько стоит?", &f, current)
	if current != StatusOfferSent {
		t.Fatalf("after inquiry: status = %q, want offer_sent", current)
	}

	current = Evaluate("дорого, не актуально", &f, current)
	if current != StatusLost {
		t.Fatalf("after rejection: status = %q, want lost", current)
	}
}

func TestEvaluateLostIsSticky(t *testing.T) {
	var f Facts
	current := StatusNew

	Extract(&f, "нужны магниты на 15.06 в Хайфе")
	current = Evaluate("нужны магниты на 15.06 в Хайфе", &f, current)
	if current != StatusQualified {
		t.Fatalf("after inquiry: status = %q, want qualified", current)
	}

	current = Evaluate("дорого, не актуально", &f, current)
	if current != StatusLost {
		t.Fatalf("after rejection: status = %q, want lost", current)
	}

	// The accumulated facts alone must not re-qualify a lost session.
	Extract(&f, "кстати 16.06 в Хайфе, магниты")
	current = Evaluate("кстати 16.06 в Хайфе, магниты", &f, current)
	if current != StatusLost {
		t.Fatalf("neutral follow-up moved status to %q, want lost", current)
	}

	// An explicit agreement still exits lost.
	current = Evaluate("хорошо, беру", &f, current)
	if current != StatusWon {
		t.Errorf("agreement after lost: status = %q, want won", current)
	}
}

func TestEvaluateWonIsSticky(t *testing.T) {
	f := &Facts{}
	current := Evaluate("готов, закрываем", f, StatusNew)
	if current != StatusWon {
		t.Fatalf("status = %q, want won", current)
	}
	// Neutral follow-up keeps the status.
	current = Evaluate("спасибо", f, current)
	if current != StatusWon {
		t.Errorf("neutral text moved status to %q", current)
	}
}
