package domain

// Sequences holds the monotonic counters used to mint entity identifiers.
// Persisted alongside the collections so identifiers are never reused after
// a deletion, unlike length-derived numbering.
type Sequences struct {
	Ticket   int `json:"ticket"`
	Employee int `json:"employee"`
	Customer int `json:"customer"`
}
