// Package traits defines the tag set carried by arena entities.
package traits

import "strings"

// Trait is a bit set of entity tags.
type Trait uint32

const (
	Player       Trait = 1 << iota // Hostile to mines, pursued
	Rollermine                     // Pursuit agent
	Destructible                   // Scenery a mine's spikes can break
	Static                         // Never moves
)

var names = [...]struct {
	t    Trait
	name string
}{
	{Player, "player"},
	{Rollermine, "rollermine"},
	{Destructible, "destructible"},
	{Static, "static"},
}

// Has checks if a trait set contains a trait.
func (t Trait) Has(other Trait) bool {
	return t&other != 0
}

// Add adds a trait to the set.
func (t Trait) Add(other Trait) Trait {
	return t | other
}

// Remove removes a trait from the set.
func (t Trait) Remove(other Trait) Trait {
	return t &^ other
}

// Parse returns the trait named tag, or 0 if the name is unknown.
func Parse(tag string) Trait {
	for _, n := range names {
		if n.name == tag {
			return n.t
		}
	}
	return 0
}

// HasTag reports whether the set carries the named tag. Unknown names
// never match.
func (t Trait) HasTag(tag string) bool {
	p := Parse(tag)
	return p != 0 && t.Has(p)
}

// String joins the tag names with '|'.
func (t Trait) String() string {
	var parts []string
	for _, n := range names {
		if t.Has(n.t) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
