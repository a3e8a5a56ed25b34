package intent

import "testing"

func TestClassify_SlashCommand(t *testing.T) {
	it := Classify("/Help me please")
	if it.Kind != KindSlashCommand {
		t.Fatalf("kind=%s", it.Kind)
	}
	if it.Command != "help" {
		t.Fatalf("command=%q", it.Command)
	}

	it = Classify("  /MOOD")
	if it.Kind != KindSlashCommand || it.Command != "mood" {
		t.Fatalf("intent=%+v", it)
	}
}

func TestClassify_MoodReport(t *testing.T) {
	cases := map[string]int{
		"My mood is 10/10": 10,
		"my mood is: 7":    7,
		"I feel 3":         3,
		"I am feeling 9":   9,
		"mood 5":           5,
		"8":                8,
		"8/10":             8,
	}
	for text, want := range cases {
		it := Classify(text)
		if it.Kind != KindMoodReport {
			t.Fatalf("%q: kind=%s", text, it.Kind)
		}
		if it.Score != want {
			t.Fatalf("%q: score=%d want=%d", text, it.Score, want)
		}
	}
}

func TestClassify_MoodBoundaries(t *testing.T) {
	for _, text := range []string{"my mood is 11", "mood 0", "I feel 100", "my mood is great"} {
		it := Classify(text)
		if it.Kind == KindMoodReport {
			t.Fatalf("%q classified as mood report", text)
		}
	}
}

func TestClassify_Keywords(t *testing.T) {
	if it := Classify("Can you give me a COPING exercise?"); it.Kind != KindExercise {
		t.Fatalf("kind=%s", it.Kind)
	}
	if it := Classify("please help me cope with this"); it.Kind != KindExercise {
		t.Fatalf("kind=%s", it.Kind)
	}
	if it := Classify("I could use an affirmation today"); it.Kind != KindAffirmation {
		t.Fatalf("kind=%s", it.Kind)
	}
	if it := Classify("share a positive thought"); it.Kind != KindAffirmation {
		t.Fatalf("kind=%s", it.Kind)
	}
}

func TestClassify_Freeform(t *testing.T) {
	if it := Classify("hello there"); it.Kind != KindFreeform {
		t.Fatalf("kind=%s", it.Kind)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	for _, text := range []string{"/help", "mood 7", "help me cope", "hello"} {
		a := Classify(text)
		b := Classify(text)
		if a != b {
			t.Fatalf("%q: %+v != %+v", text, a, b)
		}
	}
}
