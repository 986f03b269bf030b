package catalog

import "strings"

// Game is a read-only snapshot of a FreeToGame catalog entry.
// Filter results carry the summary fields only; MinimumSystemRequirements
// is populated by the detail endpoint.
type Game struct {
	ID                   int    `json:"id"`
	Title                string `json:"title"`
	Thumbnail            string `json:"thumbnail,omitempty"`
	Status               string `json:"status,omitempty"`
	ShortDescription     string `json:"short_description,omitempty"`
	Description          string `json:"description,omitempty"`
	GameURL              string `json:"game_url,omitempty"`
	Genre                string `json:"genre"`
	Platform             string `json:"platform,omitempty"`
	Publisher            string `json:"publisher,omitempty"`
	Developer            string `json:"developer,omitempty"`
	ReleaseDate          string `json:"release_date,omitempty"`
	FreeToGameProfileURL string `json:"freetogame_profile_url,omitempty"`

	MinimumSystemRequirements *SystemRequirements `json:"minimum_system_requirements,omitempty"`
	Screenshots               []Screenshot        `json:"screenshots,omitempty"`
}

// SystemRequirements are free-text hardware requirements as published
// upstream, e.g. Memory "8 GB RAM".
type SystemRequirements struct {
	OS        string `json:"os,omitempty"`
	Processor string `json:"processor,omitempty"`
	Memory    string `json:"memory,omitempty"`
	Graphics  string `json:"graphics,omitempty"`
	Storage   string `json:"storage,omitempty"`
}

// Screenshot is a gallery image of a game.
type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

// MinimumMemory returns the minimum memory requirement text, or "" when
// the game publishes none.
func (g *Game) MinimumMemory() string {
	if g == nil || g.MinimumSystemRequirements == nil {
		return ""
	}
	return strings.TrimSpace(g.MinimumSystemRequirements.Memory)
}

// IDs returns the ids of games in order.
func IDs(games []Game) []int {
	ids := make([]int, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}
