package meeting

// Participant is the value object describing one person in a waiting room.
// Identity is the stable account key and the address the push channel
// delivers to; two participants are the same member iff their identities
// match.
type Participant struct {
	Identity       string `json:"identity"`
	Nickname       string `json:"nickname"`
	Classification string `json:"classification"`
	Gender         string `json:"gender"`
}
