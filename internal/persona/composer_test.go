package persona

import (
	"errors"
	"strings"
	"testing"
)

func composerPersona(t *testing.T) *Persona {
	t.Helper()
	p, ok := mustRegistry(t, testPersonas()).Persona("asha_class5")
	if !ok {
		t.Fatalf("asha_class5 missing")
	}
	return p
}

func TestComposePromptBareEqualsBasePrompt(t *testing.T) {
	p := composerPersona(t)
	got, err := ComposePrompt(p, ComposeOptions{})
	if err != nil {
		t.Fatalf("ComposePrompt: %v", err)
	}
	if got != p.BasePrompt {
		t.Fatalf("ComposePrompt(bare)=%q, want base prompt %q", got, p.BasePrompt)
	}
}

func TestComposePromptNilPersona(t *testing.T) {
	if _, err := ComposePrompt(nil, ComposeOptions{Subject: "math"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ComposePrompt(nil) error=%v, want ErrInvalidArgument", err)
	}
}

func TestComposePromptAllSections(t *testing.T) {
	p := composerPersona(t)
	got, err := ComposePrompt(p, ComposeOptions{
		Subject:          "Math",
		PerformanceScore: ptr(42),
		Context:          &SelectionContext{TimeOfDay: Evening, StudentMood: "sleepy"},
	})
	if err != nil {
		t.Fatalf("ComposePrompt: %v", err)
	}
	want := "You are Asha Didi." +
		"\n\nSUBJECT-SPECIFIC APPROACH FOR math:\nApproach: Use stories.\nExamples to use: laddoos, coins, chai" +
		"\n\nPERFORMANCE LEVEL: STRUGGLING\nApproach: Basics.\nEncouragement Style: Gentle.\nStrategy: Tiny steps." +
		"\n\nCURRENT CONTEXT:\nTime of day: evening — student might be tired, be extra encouraging\nStudent mood: sleepy"
	if got != want {
		t.Fatalf("ComposePrompt mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestComposePromptIsDeterministic(t *testing.T) {
	p := composerPersona(t)
	opts := ComposeOptions{Subject: "math", PerformanceScore: ptr(70), Context: &SelectionContext{TimeOfDay: Morning}}
	first, _ := ComposePrompt(p, opts)
	for i := 0; i < 20; i++ {
		again, _ := ComposePrompt(p, opts)
		if again != first {
			t.Fatalf("ComposePrompt is not deterministic:\n%q\n%q", first, again)
		}
	}
}

func TestComposePromptOmitsSectionsWithoutData(t *testing.T) {
	p := composerPersona(t)
	cases := []struct {
		name string
		opts ComposeOptions
		want string
	}{
		{
			name: "unknown_subject",
			opts: ComposeOptions{Subject: "history"},
			want: p.BasePrompt,
		},
		{
			name: "tier_without_adaptation",
			opts: ComposeOptions{PerformanceScore: ptr(95)},
			want: p.BasePrompt,
		},
		{
			name: "mood_without_time_of_day",
			opts: ComposeOptions{Context: &SelectionContext{StudentMood: "happy"}},
			want: p.BasePrompt,
		},
		{
			name: "afternoon_has_no_clause",
			opts: ComposeOptions{Context: &SelectionContext{TimeOfDay: Afternoon}},
			want: p.BasePrompt + "\n\nCURRENT CONTEXT:\nTime of day: afternoon",
		},
		{
			name: "morning_clause",
			opts: ComposeOptions{Context: &SelectionContext{TimeOfDay: Morning}},
			want: p.BasePrompt + "\n\nCURRENT CONTEXT:\nTime of day: morning — student might be fresh and energetic",
		},
		{
			name: "subject_from_context",
			opts: ComposeOptions{Context: &SelectionContext{Subject: "math"}},
			want: p.BasePrompt + "\n\nSUBJECT-SPECIFIC APPROACH FOR math:\nApproach: Use stories.\nExamples to use: laddoos, coins, chai",
		},
		{
			name: "average_tier",
			opts: ComposeOptions{PerformanceScore: ptr(60)},
			want: p.BasePrompt + "\n\nPERFORMANCE LEVEL: AVERAGE\nApproach: Mix.\nEncouragement Style: Warm.\nStrategy: Explain back.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComposePrompt(p, tc.opts)
			if err != nil {
				t.Fatalf("ComposePrompt: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ComposePrompt\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestSectionBuildersIndependently(t *testing.T) {
	p := composerPersona(t)
	if s, ok := baseSection(p, ComposeOptions{}); !ok || s != p.BasePrompt {
		t.Fatalf("baseSection=%q,%v", s, ok)
	}
	if _, ok := subjectSection(p, ComposeOptions{}); ok {
		t.Fatalf("subjectSection without subject should be absent")
	}
	if s, ok := levelSection(p, ComposeOptions{PerformanceScore: ptr(10)}); !ok || !strings.HasPrefix(s, "PERFORMANCE LEVEL: STRUGGLING") {
		t.Fatalf("levelSection=%q,%v", s, ok)
	}
	if _, ok := contextSection(p, ComposeOptions{Context: &SelectionContext{}}); ok {
		t.Fatalf("contextSection without time of day should be absent")
	}
}
