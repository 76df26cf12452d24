package traits

import "testing"

func TestHasTag(t *testing.T) {
	set := Player.Add(Static)

	tests := []struct {
		tag  string
		want bool
	}{
		{"player", true},
		{"static", true},
		{"rollermine", false},
		{"destructible", false},
		{"", false},
		{"npc", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := set.HasTag(tt.tag); got != tt.want {
				t.Errorf("HasTag(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestAddRemove(t *testing.T) {
	set := Destructible.Add(Static).Remove(Static)
	if set != Destructible {
		t.Errorf("set = %v, want destructible", set)
	}
	if s := Player.Add(Rollermine).String(); s != "player|rollermine" {
		t.Errorf("String = %q", s)
	}
}
