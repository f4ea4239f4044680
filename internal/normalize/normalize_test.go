package normalize

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Phoebe Bridgers", "phoebe bridgers"},
		{"  Phoebe   Bridgers  ", "phoebe bridgers"},
		{"AC/DC", "ac dc"},
		{"Sigur Rós", "sigur ros"},
		{"Beyoncé", "beyonce"},
		{"BEYONCE", "beyonce"},
		{"Florence + The Machine", "florence the machine"},
		{"!!!", ""},
		{"", ""},
		{"blink-182", "blink 182"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.expected {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestName_Idempotent(t *testing.T) {
	inputs := []string{
		"Phoebe Bridgers",
		"Beyoncé",
		"AC/DC",
		"Florence + The Machine",
		"!!!",
		"",
		"Sigur Rós",
	}
	for _, in := range inputs {
		once := Name(in)
		twice := Name(once)
		if once != twice {
			t.Errorf("Name not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestArtistName_StripsLeadingThe(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"The National", "national"},
		{"The The", "the"}, // stripping must not produce an empty name
		{"Theo Katzman", "theo katzman"},
		{"the 1975", "1975"},
	}

	for _, tt := range tests {
		if got := ArtistName(tt.input); got != tt.expected {
			t.Errorf("ArtistName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSameArtist(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identical", "Mitski", "Mitski", true},
		{"case and punctuation", "Beyoncé", "beyonce", true},
		{"leading the", "The National", "National", true},
		{"featured billing", "Drake", "Drake feat. 21 Savage", true},
		{"typo tolerance", "Phoebe Bridgers", "Phoebe Bridgirs", true},
		{"short substring guard", "MIA", "Bohemian Rhapsody", false},
		{"different artists", "Mitski", "Big Thief", false},
		{"short names equal", "MIA", "M.I.A.", true},
		{"empty vs punctuation", "", "!!!", true}, // both normalize empty
		{"punctuation vs name", "!!!", "Mitski", false},
		{"two different punctuation-only", "!!!", "???", true}, // both empty after normalization
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameArtist(tt.a, tt.b); got != tt.want {
				t.Errorf("SameArtist(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSameArtist_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Drake", "Drake feat. 21 Savage"},
		{"The National", "National"},
		{"Mitski", "Big Thief"},
		{"Phoebe Bridgers", "Phoebe Bridgirs"},
		{"", "!!!"},
		{"MIA", "Bohemian Rhapsody"},
	}
	for _, p := range pairs {
		if SameArtist(p[0], p[1]) != SameArtist(p[1], p[0]) {
			t.Errorf("SameArtist not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestSameName_Venues(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want bool
	}{
		{"Hollywood Bowl", "The Hollywood Bowl", true},
		{"Madison Square Garden", "MSG", false},
		{"Red Rocks Amphitheatre", "Red Rocks Amphitheater", true},
		{"Los Angeles", "Los Angeles, CA", true},
	}

	for _, tt := range tests {
		if got := SameName(tt.a, tt.b); got != tt.want {
			t.Errorf("SameName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSameGenre(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want bool
	}{
		{"indie rock", "rock", true},
		{"Indie Rock", "indie", true},
		{"pop", "hip hop", false},
		{"dream pop", "dream pop", true},
		{"", "rock", false},
	}

	for _, tt := range tests {
		if got := SameGenre(tt.a, tt.b); got != tt.want {
			t.Errorf("SameGenre(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGenreRoot(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"dream pop", "pop"},
		{"indie rock", "rock"},
		{"Rock", "rock"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := GenreRoot(tt.input); got != tt.expected {
			t.Errorf("GenreRoot(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestContainsArtist(t *testing.T) {
	names := []string{"Phoebe Bridgers", "Mitski", "Big Thief"}
	if !ContainsArtist(names, "phoebe bridgers") {
		t.Error("expected case-folded match")
	}
	if ContainsArtist(names, "Carly Rae Jepsen") {
		t.Error("unexpected match")
	}
}
