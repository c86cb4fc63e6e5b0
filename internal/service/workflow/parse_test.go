package workflow

import "testing"

func TestExtractJSONPlainArray(t *testing.T) {
	got := extractJSON(`[{"title": "A"}]`)
	if got != `[{"title": "A"}]` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONFencedBlock(t *testing.T) {
	text := "Here are your ideas:\n```json\n{\"score\": 8}\n```\nLet me know if you need more."
	got := extractJSON(text)
	if got != `{"score": 8}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	text := `Sure! The analysis: {"score": 7, "analysis": "solid [idea]"} Hope that helps.`
	got := extractJSON(text)
	if got != `{"score": 7, "analysis": "solid [idea]"}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONNoPayload(t *testing.T) {
	if got := extractJSON("no structured data here"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestExtractJSONBracketInsideString(t *testing.T) {
	text := `{"analysis": "uses } inside", "score": 5}`
	got := extractJSON(text)
	if got != text {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractKeyValueBlocks(t *testing.T) {
	text := `1. Title: Solar Lamp
Concept: A lamp for off-grid studying
Innovation Level: 8
2. Title: Quiet Alarm
Concept: A silent wearable alarm`

	blocks := extractKeyValueBlocks(text)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %v", len(blocks), blocks)
	}
	if blocks[0]["concept"] != "A lamp for off-grid studying" {
		t.Fatalf("unexpected first concept: %q", blocks[0]["concept"])
	}
	if blocks[1]["title"] != "Quiet Alarm" {
		t.Fatalf("unexpected second title: %q", blocks[1]["title"])
	}
}
