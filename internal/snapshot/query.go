package snapshot

import "time"

// Query selects stored records. Empty string fields and an empty Outcomes
// list do not constrain; zero Since/Until leave the window open. Results
// are always ordered by observed_at ascending.
type Query struct {
	GameID     string
	PlayerName string
	Market     string
	Bookmaker  string
	Outcomes   []string
	Since      time.Time
	Until      time.Time
}
