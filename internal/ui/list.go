package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = viewItem{}

// viewItem wraps one analysis view to implement [list.Item].
type viewItem struct {
	name string
	desc string
}

func (i viewItem) FilterValue() string { return i.name }
func (i viewItem) Title() string       { return i.name }
func (i viewItem) Description() string { return i.desc }

// menuItems lists the analysis views shown in the dashboard menu.
func menuItems() []list.Item {
	return []list.Item{
		viewItem{"Listening Clock", "When in the day you listen"},
		viewItem{"Top Genres", "Genre breakdown of your top artists"},
		viewItem{"Hidden Gems", "Favorites by under-the-radar artists"},
		viewItem{"Demographics", "How your taste compares to cohorts"},
		viewItem{"Music Personality", "Your listening archetype"},
		viewItem{"Festival Lineup", "A poster cut from your top artists"},
		viewItem{"Artist Timeline", "When you discovered your artists"},
		viewItem{"Seasonal Patterns", "Listening activity through the year"},
		viewItem{"Mood Profile", "The emotional shape of your rotation"},
		viewItem{"Music Evolution", "Top artists across time ranges"},
		viewItem{"Song Repetition", "Your most replayed tracks"},
		viewItem{"Recommendations", "Top tracks from your favorite artist"},
		viewItem{"Full Report", "Every view in one run"},
	}
}
