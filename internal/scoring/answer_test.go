package scoring

import (
	"testing"

	"github.com/abhisek/numeracy/internal/questiongen"
)

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		student, correct string
		want             bool
	}{
		{"42", "42", true},
		{" 42 ", "42", true},
		{"42.0", "42", true},
		{"42.004", "42", true},
		{"42.02", "42", false},
		{"$5", "5", true},
		{"5 dollars", "5", true},
		{"£2.50", "2.50", true},
		{"120 cm", "120", true},
		{"3 kg", "3", true},
		{"1/2", "0.5", true},
		{"2/4", "1/2", true},
		{"1/3", "0.33", true},
		{"1/0", "0", false},
		{"Square", "square", true},
		{"square ", "Square", true},
		{"circle", "square", false},
		{"", "0", false},
		{"   ", "", false},
		{"9:30", "9:30", true},
		{"9:30", "9:45", false},
		{"forty", "40", false},
		{"5 apples", "5", true},
		{"3 hours", "3", true},
		{"5eggs", "5", true},
		{"42.01", "42", true},
		{"0.01", "0", true},
		{"0.02", "0", false},
		{"1,200", "1200", false},
		{"10:15", "10", false},
	}
	for _, tt := range tests {
		got := CheckAnswer(tt.student, tt.correct, questiongen.AnswerNumeric)
		if got != tt.want {
			t.Errorf("CheckAnswer(%q, %q) = %v, want %v", tt.student, tt.correct, got, tt.want)
		}
	}
}

func TestCheckAnswer_MultipleChoice(t *testing.T) {
	if !CheckAnswer("Park Avenue", "park avenue", questiongen.AnswerMultipleChoice) {
		t.Error("option text should match case-insensitively")
	}
	if !CheckAnswer("3/4", "0.75", questiongen.AnswerMultipleChoice) {
		t.Error("equivalent numeric options should match")
	}
	if CheckAnswer("", "3/4", questiongen.AnswerMultipleChoice) {
		t.Error("empty answer must be wrong")
	}
}

func TestFormatAnswer(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", NoAnswer},
		{"  ", NoAnswer},
		{"12", "12"},
		{"12.0", "12"},
		{"2.5", "2.50"},
		{"0.126", "0.13"},
		{"3/4", "0.75"},
		{"1/2", "0.50"},
		{"$5", "5"},
		{"£2.5", "2.50"},
		{"9:30", "9:30"},
		{"Square", "Square"},
	}
	for _, tt := range tests {
		if got := FormatAnswer(tt.in); got != tt.want {
			t.Errorf("FormatAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsAnswered(t *testing.T) {
	if IsAnswered(" \t") {
		t.Error("whitespace is not an answer")
	}
	if !IsAnswered("0") {
		t.Error("0 is an answer")
	}
}

func TestValidNumericInput(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"12", true},
		{"-4", true},
		{"0.5", true},
		{".5", true},
		{"$1,200", true},
		{"3/4", true},
		{"1 / 2", true},
		{"", false},
		{"abc", false},
		{"1.2.3", false},
		{"-3/4", false},
	}
	for _, tt := range tests {
		if got := ValidNumericInput(tt.in); got != tt.want {
			t.Errorf("ValidNumericInput(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
