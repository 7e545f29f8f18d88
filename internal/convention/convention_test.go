package convention

import (
	"errors"
	"testing"
)

func TestParse_SAI(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		want    Match
		wantErr bool
	}{
		{
			name: "with part",
			base: "SAI-Hello_World-Part2-JaneDoe",
			want: Match{Convention: SAI, Title: "Hello World", Part: "2", Person: "JaneDoe"},
		},
		{
			name: "part defaults to 1",
			base: "SAI-Hello_World-JaneDoe",
			want: Match{Convention: SAI, Title: "Hello World", Part: "1", Person: "JaneDoe"},
		},
		{
			name: "multi digit part",
			base: "SAI-Intro-Part12-JanVanDerWatt",
			want: Match{Convention: SAI, Title: "Intro", Part: "12", Person: "JanVanDerWatt"},
		},
		{
			name: "person keeps dashes",
			base: "SAI-Intro-Jan-Van",
			want: Match{Convention: SAI, Title: "Intro", Part: "1", Person: "Jan-Van"},
		},
		{name: "missing prefix", base: "Hello_World-Part2-JaneDoe", wantErr: true},
		{name: "title only", base: "SAI-Hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(SAI, tt.base, Params{})
			if tt.wantErr {
				if !errors.Is(err, ErrNoMatch) {
					t.Fatalf("Parse(%q) error = %v, want ErrNoMatch", tt.base, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.base, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.base, got, tt.want)
			}
		})
	}
}

func TestParse_TPV(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		want    Match
		wantErr bool
	}{
		{
			name: "with part",
			base: "Asking_for_Directions_Part_1_LLR_MANDARIN_BLUEPRINT",
			want: Match{Convention: TPV, Title: "Asking for Directions", Part: "1", Album: "LLR"},
		},
		{
			name: "part defaults to 1",
			base: "At_the_Restaurant_TAP_MANDARIN_BLUEPRINT",
			want: Match{Convention: TPV, Title: "At the Restaurant", Part: "1", Album: "TAP"},
		},
		{
			name: "immersion part 3",
			base: "Shopping_Part_3_IMMERSION_MANDARIN_BLUEPRINT",
			want: Match{Convention: TPV, Title: "Shopping", Part: "3", Album: "IMMERSION"},
		},
		{
			name: "trailing text ignored",
			base: "Shopping_LLR_MANDARIN_BLUEPRINT (1)",
			want: Match{Convention: TPV, Title: "Shopping", Part: "1", Album: "LLR"},
		},
		{name: "unknown album code", base: "Shopping_XYZ_MANDARIN_BLUEPRINT", wantErr: true},
		{name: "no suffix", base: "Shopping_Part_3_LLR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(TPV, tt.base, Params{})
			if tt.wantErr {
				if !errors.Is(err, ErrNoMatch) {
					t.Fatalf("Parse(%q) error = %v, want ErrNoMatch", tt.base, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.base, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.base, got, tt.want)
			}
		})
	}
}

func TestParse_Sentence(t *testing.T) {
	got, err := Parse(Sentence, "L24 All Sentences Combined", Params{Level: "24"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.Title != "L24 All Sentences Combined" {
		t.Errorf("Title = %q", got.Title)
	}

	for _, tc := range []struct {
		base, level string
	}{
		{"L23 All Sentences Combined", "24"},
		{"L24 All Sentences Combined", ""},
		{"Level 24 All Sentences Combined", "24"},
	} {
		if _, err := Parse(Sentence, tc.base, Params{Level: tc.level}); !errors.Is(err, ErrNoMatch) {
			t.Errorf("Parse(%q, level %q) error = %v, want ErrNoMatch", tc.base, tc.level, err)
		}
	}
}

func TestParse_ParagraphAudio(t *testing.T) {
	titles := []string{"Sleeping Beauty", "The Sleeping Beauty (Part 1)"}

	tests := []struct {
		name    string
		base    string
		want    Match
		wantErr bool
	}{
		{
			name: "female slower",
			base: "AUDIO - Sleeping Beauty - Female (Slower)",
			want: Match{Convention: ParagraphAudio, Title: "Sleeping Beauty", Gender: "Female", Speed: "Slower"},
		},
		{
			name: "male native speed",
			base: "AUDIO - Sleeping Beauty - Male (Native Speed)",
			want: Match{Convention: ParagraphAudio, Title: "Sleeping Beauty", Gender: "Male", Speed: "Native Speed"},
		},
		{
			name: "second candidate with regex metacharacters",
			base: "AUDIO - The Sleeping Beauty (Part 1) - Male (Slower)",
			want: Match{Convention: ParagraphAudio, Title: "The Sleeping Beauty (Part 1)", Gender: "Male", Speed: "Slower"},
		},
		{name: "unknown title", base: "AUDIO - Cinderella - Male (Slower)", wantErr: true},
		{name: "lowercase gender", base: "AUDIO - Sleeping Beauty - male (Slower)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(ParagraphAudio, tt.base, Params{EnglishTitles: titles})
			if tt.wantErr {
				if !errors.Is(err, ErrNoMatch) {
					t.Fatalf("Parse(%q) error = %v, want ErrNoMatch", tt.base, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.base, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.base, got, tt.want)
			}
		})
	}
}

func TestParse_ParagraphVideo(t *testing.T) {
	titles := []string{"Sleeping Beauty"}

	got, err := Parse(ParagraphVideo, "VIDEO FEMALE - Sleeping Beauty", Params{EnglishTitles: titles})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := Match{Convention: ParagraphVideo, Title: "Sleeping Beauty", Gender: "FEMALE"}
	if got != want {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}

	if _, err := Parse(ParagraphVideo, "VIDEO Female - Sleeping Beauty", Params{EnglishTitles: titles}); !errors.Is(err, ErrNoMatch) {
		t.Errorf("mixed case gender should not match, got %v", err)
	}
}

func TestParse_TitleInfo(t *testing.T) {
	got, err := Parse(TitleInfo, "TITLE INFO - Sleeping Beauty - Paragraph 3", Params{})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.Title != "Sleeping Beauty" || got.Part != "3" {
		t.Errorf("Parse = %+v", got)
	}

	got, err = Parse(TitleInfo, "TITLE INFO - Sleeping Beauty", Params{})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.Title != "Sleeping Beauty" || got.Part != "0" {
		t.Errorf("Parse = %+v, want paragraph 0", got)
	}

	if _, err := Parse(TitleInfo, "notes", Params{}); !errors.Is(err, ErrNoMatch) {
		t.Errorf("error = %v, want ErrNoMatch", err)
	}
}

func TestParse_UnknownConvention(t *testing.T) {
	_, err := Parse(ID("bogus"), "x", Params{})
	if err == nil || errors.Is(err, ErrNoMatch) {
		t.Errorf("error = %v, want unknown convention error", err)
	}
}

func TestCandidate(t *testing.T) {
	tests := []struct {
		id   ID
		base string
		want bool
	}{
		{SAI, "SAI-x-y", true},
		{SAI, "sai-x-y", false},
		{TPV, "Shopping_LLR_MANDARIN_BLUEPRINT", true},
		{TPV, "Shopping", false},
		{Sentence, "L2 All Sentences Combined", true},
		{Sentence, "L2 Sentence 1", false},
		{ParagraphAudio, "AUDIO - x", true},
		{ParagraphAudio, "VIDEO MALE - x", false},
		{ParagraphVideo, "VIDEO MALE - x", true},
		{TitleInfo, "TITLE INFO - x", true},
	}

	for _, tt := range tests {
		if got := Candidate(tt.id, tt.base); got != tt.want {
			t.Errorf("Candidate(%s, %q) = %v, want %v", tt.id, tt.base, got, tt.want)
		}
	}
}

func TestGlyphs(t *testing.T) {
	if GenderGlyph("Female") != "女" || GenderGlyph("FEMALE") != "女" {
		t.Error("female should map to 女")
	}
	if GenderGlyph("Male") != "男" {
		t.Error("male should map to 男")
	}
	if SpeedGlyph("Slower") != "慢话" {
		t.Error("slower should map to 慢话")
	}
	if SpeedGlyph("Native Speed") != "对话" {
		t.Error("native speed should map to 对话")
	}
}

func TestParsePathContext(t *testing.T) {
	tests := []struct {
		path string
		want PathContext
		ok   bool
	}{
		{"/data/mandarin blueprint/mbP3L24/story", PathContext{Code: "mbP3L24", Phase: "3", Level: "24"}, true},
		{"/data/Mandarin Blueprint/mbP12L105", PathContext{Code: "mbP12L105", Phase: "12", Level: "105"}, true},
		{"/data/mandarin blueprint/old/mandarin blueprint/mbP1L2", PathContext{Code: "mbP1L2", Phase: "1", Level: "2"}, true},
		{"/data/MANDARIN BLUEPRINT/mbP1L2/story", PathContext{Code: "mbP1L2", Phase: "1", Level: "2"}, true},
		{"/data/Mandarin Blueprint/x/MANDARIN blueprint/mbP4L40", PathContext{Code: "mbP4L40", Phase: "4", Level: "40"}, true},
		{"/data/Mandarin Blueprint/MBP3L24", PathContext{}, false},
		{"/data/mbP3L24", PathContext{}, false},
		{"/data/mandarin blueprint/level24", PathContext{}, false},
	}

	for _, tt := range tests {
		got, ok := ParsePathContext(tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParsePathContext(%q) = %+v, %v; want %+v, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
