package models

// Participant represents one connected client. The ID is unique per
// connection; the username is display-only and not guaranteed unique.
type Participant struct {
	ID        string    `json:"id"` // connection UUID
	Username  string    `json:"username"`
	Character Character `json:"character"`
	Room      string    `json:"room"`
	JoinedAt  int64     `json:"joinedAt"` // Unix ms
}

// Summary is the participant shape broadcast in user lists.
type Summary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Character Character `json:"character"`
}

// Summarize returns the broadcast-safe view of p.
func (p *Participant) Summarize() Summary {
	return Summary{ID: p.ID, Username: p.Username, Character: p.Character}
}
