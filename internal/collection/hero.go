package collection

// HeroMap is a read-only title to hero lookup. Matching is exact.
type HeroMap struct {
	data map[string]string
}

// NewHeroMap copies entries into a new HeroMap.
func NewHeroMap(entries map[string]string) HeroMap {
	data := make(map[string]string, len(entries))
	for title, hero := range entries {
		data[title] = hero
	}
	return HeroMap{data: data}
}

// Lookup returns the hero mapped to title, if any.
func (h HeroMap) Lookup(title string) (string, bool) {
	hero, ok := h.data[title]
	return hero, ok
}

// Len reports the number of mapped titles.
func (h HeroMap) Len() int {
	return len(h.data)
}

var defaultHeroes = NewHeroMap(map[string]string{
	"The Dark Knight":                    "Batman",
	"Inception":                          "Iron Man",
	"Daagdi Chawl":                       "Superman",
	"Captain America: The First Avenger": "Captain America",
	"Wonder Woman":                       "Wonder Woman",
})

// DefaultHeroes returns the built-in hero table.
func DefaultHeroes() HeroMap {
	return defaultHeroes
}
