package poker

import "testing"

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "2h", want: NewCard(Two, Hearts)},
		{input: "Kd", want: NewCard(King, Diamonds)},
		{input: "Tc", want: NewCard(Ten, Clubs)},
		{input: "10c", want: NewCard(Ten, Clubs)},
		{input: "qH", want: NewCard(Queen, Hearts)},
		{input: "Xs", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCard(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCard(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCard(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"As Kd Qh", "As,Kd,Qh", "AsKdQh"} {
		cards, err := ParseCards(input)
		if err != nil {
			t.Fatalf("ParseCards(%q): %v", input, err)
		}
		if got := FormatCards(cards); got != "As Kd Qh" {
			t.Errorf("ParseCards(%q) = %s", input, got)
		}
	}

	if _, err := ParseCards("As Zz"); err == nil {
		t.Error("expected error for invalid card")
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()

	if s := NewCard(Ten, Hearts).String(); s != "Th" {
		t.Errorf("expected Th, got %s", s)
	}
	if s := NewCard(Two, Clubs).String(); s != "2c" {
		t.Errorf("expected 2c, got %s", s)
	}
	if (Card{}).Valid() {
		t.Error("zero card should not be valid")
	}
}
