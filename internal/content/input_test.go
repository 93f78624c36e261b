package content

import (
	"strings"
	"testing"
)

func TestHadithInput_Validate(t *testing.T) {
	valid := HadithInput{
		ArabicText:  "نص",
		Translation: "Text",
		Source:      "Sahih Muslim",
		Grade:       "Hasan",
	}

	tests := []struct {
		name   string
		mutate func(*HadithInput)
		field  string
		msg    string
	}{
		{"missing arabic", func(in *HadithInput) { in.ArabicText = "" }, "arabic_text", "Please enter Arabic text"},
		{"missing translation", func(in *HadithInput) { in.Translation = "" }, "translation", "Please enter translation"},
		{"missing source", func(in *HadithInput) { in.Source = "" }, "source", "Please enter source"},
		{"missing grade", func(in *HadithInput) { in.Grade = "" }, "grade", "Please select a grade"},
		{"grade too long", func(in *HadithInput) { in.Grade = strings.Repeat("g", MaxGradeLength+1) }, "grade", "Too long"},
		{"source too long", func(in *HadithInput) { in.Source = strings.Repeat("s", MaxSourceLength+1) }, "source", "Too long"},
	}

	if errs := valid.Validate(); errs != nil {
		t.Fatalf("valid input rejected: %v", errs)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			errs := in.Validate()
			if errs == nil {
				t.Fatal("expected validation errors")
			}
			if got := errs[tt.field]; got != tt.msg {
				t.Errorf("errs[%q] = %q, want %q", tt.field, got, tt.msg)
			}
		})
	}
}

func TestHadithInput_ValidateOpenGrade(t *testing.T) {
	for _, grade := range []string{"Mawdu'", "Hasan Sahih", "Da'if"} {
		in := HadithInput{ArabicText: "نص", Translation: "Text", Source: "Sunan al-Tirmidhi", Grade: grade}
		if errs := in.Validate(); errs != nil {
			t.Errorf("grade %q rejected: %v", grade, errs)
		}
	}
}

func TestHadithInput_Normalize(t *testing.T) {
	in := HadithInput{
		ArabicText:  "  <script>alert(1)</script>نص  ",
		Translation: "Be kind & gentle",
		Source:      " Abu Dawud ",
		Grade:       " Da'if ",
	}
	in.Normalize()

	if in.ArabicText != "نص" {
		t.Errorf("ArabicText = %q", in.ArabicText)
	}
	if in.Translation != "Be kind & gentle" {
		t.Errorf("Translation = %q", in.Translation)
	}
	if in.Source != "Abu Dawud" {
		t.Errorf("Source = %q", in.Source)
	}
	if in.Grade != "Da'if" {
		t.Errorf("Grade = %q", in.Grade)
	}
}
