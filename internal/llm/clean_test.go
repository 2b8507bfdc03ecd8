package llm

import "testing"

func TestParseLabelsPlainJSON(t *testing.T) {
	labels, err := parseLabels(`{"labels":[{"label":"person","confidence":0.97},{"label":"smile","confidence":0.8}]}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(labels) != 2 || labels[0].Label != "person" || labels[1].Confidence != 0.8 {
		t.Fatalf("unexpected labels: %+v", labels)
	}
}

func TestParseLabelsFencedJSON(t *testing.T) {
	raw := "```json\n{\"labels\":[{\"label\":\"face\",\"confidence\":0.9}]}\n```"
	labels, err := parseLabels(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(labels) != 1 || labels[0].Label != "face" {
		t.Fatalf("unexpected labels: %+v", labels)
	}
}

func TestParseLabelsWrappedInText(t *testing.T) {
	raw := "Resultado del analisis:\n{\"labels\":[{\"label\":\"serious\",\"confidence\":0.7}]}\nfin"
	labels, err := parseLabels(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if labels[0].Label != "serious" {
		t.Fatalf("unexpected labels: %+v", labels)
	}
}

func TestParseLabelsInvalid(t *testing.T) {
	for _, raw := range []string{"", "no json aqui", `{"labels":[]}`} {
		if _, err := parseLabels(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseLabelsStripsBOM(t *testing.T) {
	raw := "\uFEFF{\"labels\":[{\"label\":\"person\",\"confidence\":0.95}]}"
	labels, err := parseLabels(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(labels) != 1 || labels[0].Label != "person" {
		t.Fatalf("unexpected labels: %+v", labels)
	}
}
