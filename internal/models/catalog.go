package models

// Catalog is the set of analysts and models offered to users.
type Catalog struct {
	Analysts []Analyst `json:"analysts"`
	Models   []Model   `json:"models"`
}

// Providers returns the distinct model providers in first-seen order.
func (c Catalog) Providers() []string {
	seen := make(map[string]bool, len(c.Models))
	var providers []string
	for _, m := range c.Models {
		if m.Provider == "" || seen[m.Provider] {
			continue
		}
		seen[m.Provider] = true
		providers = append(providers, m.Provider)
	}
	return providers
}
