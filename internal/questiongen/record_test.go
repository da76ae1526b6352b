package questiongen

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleMCQ() Record {
	return Record{
		Type:     TypeMultipleChoice,
		Question: "What is 2+2?",
		Options:  []Option{{"A", "3"}, {"B", "4"}, {"C", "5"}, {"D", "6"}},
		Answers:  []string{"B"},
	}
}

func sampleBinary() Record {
	return Record{
		Type:        TypeYesNo,
		Question:    "Is water wet?",
		Answer:      "Yes",
		Explanation: "Water exhibits wetting behavior.",
	}
}

func TestRecordMarshalJSON_MCQ(t *testing.T) {
	data, err := json.Marshal(sampleMCQ())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"question":"What is 2+2?","options":{"A":"3","B":"4","C":"5","D":"6"},"correct_answer":["B"]}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

func TestRecordMarshalJSON_Binary(t *testing.T) {
	data, err := json.Marshal(sampleBinary())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"question":"Is water wet?","correct_answer":"Yes","explanation":"Water exhibits wetting behavior."}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

func TestRecordUnmarshalJSON(t *testing.T) {
	for _, r := range []Record{sampleMCQ(), sampleBinary()} {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got Record
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !reflect.DeepEqual(got, r) {
			t.Errorf("got %+v, want %+v", got, r)
		}
	}
}

func TestRecordUnmarshalJSON_OptionOrder(t *testing.T) {
	var r Record
	err := json.Unmarshal([]byte(`{"question":"q","options":{"K":"k","B":"b","A":"a"},"correct_answer":["A"]}`), &r)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []Option{{"A", "a"}, {"B", "b"}, {"K", "k"}}
	if !reflect.DeepEqual(r.Options, want) {
		t.Errorf("Options = %v, want %v", r.Options, want)
	}
}

func TestRecordUnmarshalJSON_BadAnswer(t *testing.T) {
	var r Record
	for _, in := range []string{
		`{"question":"q"}`,
		`{"question":"q","correct_answer":"Maybe","explanation":"e"}`,
		`{"question":"q","correct_answer":3}`,
	} {
		if err := json.Unmarshal([]byte(in), &r); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}

func TestRecordMarshalYAML(t *testing.T) {
	data, err := yaml.Marshal(sampleMCQ())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "A: \"3\"") || strings.Index(out, "A: ") > strings.Index(out, "D: ") {
		t.Errorf("options missing or out of order:\n%s", out)
	}

	data, err = yaml.Marshal(Record{Type: TypeTrueFalse, Question: "q", Answer: "True", Explanation: "e"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["correct_answer"] != "True" {
		t.Errorf("correct_answer decoded as %#v, want string", back["correct_answer"])
	}
}

func TestRecordCorrectAnswer(t *testing.T) {
	r := sampleMCQ()
	r.Answers = []string{"A", "C"}
	if got := r.CorrectAnswer(); got != "A, C" {
		t.Errorf("CorrectAnswer() = %q", got)
	}
	if got := sampleBinary().CorrectAnswer(); got != "Yes" {
		t.Errorf("CorrectAnswer() = %q", got)
	}
	if text, ok := sampleMCQ().Option("C"); !ok || text != "5" {
		t.Errorf("Option(C) = %q, %v", text, ok)
	}
}
