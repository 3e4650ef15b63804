package types

import (
	"testing"
)

func TestIdentity(t *testing.T) {
	t.Run("ParseIdentity", func(t *testing.T) {
		tests := []struct {
			name    string
			input   string
			want    Identity
			wantErr bool
		}{
			{"valid", "76561198012345678", Identity(76561198012345678), false},
			{"small", "42", Identity(42), false},
			{"zero", "0", EmptyIdentity, true},
			{"empty", "", EmptyIdentity, true},
			{"not_a_number", "steam://joinlobby", EmptyIdentity, true},
			{"negative", "-5", EmptyIdentity, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := ParseIdentity(tt.input)
				if (err != nil) != tt.wantErr {
					t.Errorf("ParseIdentity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				}
				if got != tt.want {
					t.Errorf("ParseIdentity(%q) = %v, want %v", tt.input, got, tt.want)
				}
			})
		}
	})

	t.Run("String", func(t *testing.T) {
		id := Identity(76561198012345678)
		if id.String() != "76561198012345678" {
			t.Errorf("Identity.String() = %q, want %q", id.String(), "76561198012345678")
		}

		// 空身份：空串，不输出 "0"
		if EmptyIdentity.String() != "" {
			t.Errorf("EmptyIdentity.String() = %q, want \"\"", EmptyIdentity.String())
		}
	})

	t.Run("IsEmpty", func(t *testing.T) {
		if !EmptyIdentity.IsEmpty() {
			t.Error("EmptyIdentity.IsEmpty() = false, want true")
		}
		id := Identity(1)
		if id.IsEmpty() {
			t.Error("Identity(1).IsEmpty() = true, want false")
		}
	})

	t.Run("Equal", func(t *testing.T) {
		id1 := Identity(100)
		id2 := Identity(100)
		id3 := Identity(200)

		if !id1.Equal(id2) {
			t.Error("Identity.Equal() = false, want true for same IDs")
		}
		if id1.Equal(id3) {
			t.Error("Identity.Equal() = true, want false for different IDs")
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		id := Identity(76561197960265729)
		parsed, err := ParseIdentity(id.String())
		if err != nil {
			t.Fatalf("ParseIdentity(String()) error = %v", err)
		}
		if parsed != id {
			t.Errorf("round trip = %v, want %v", parsed, id)
		}
	})
}

func TestLobbyToken(t *testing.T) {
	t.Run("IsEmpty", func(t *testing.T) {
		if !LobbyToken("").IsEmpty() {
			t.Error("empty token should be empty")
		}
		if LobbyToken("lobby-1").IsEmpty() {
			t.Error("non-empty token should not be empty")
		}
	})

	t.Run("String", func(t *testing.T) {
		tok := LobbyToken("lobby-abc")
		if tok.String() != "lobby-abc" {
			t.Errorf("LobbyToken.String() = %q, want %q", tok.String(), "lobby-abc")
		}
	})
}
