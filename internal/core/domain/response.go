package domain

import "time"

// ResponseDocument is the assembled output of an answering run: the
// abstract model a document writer renders into its final format.
//
// Invariant: Questions carry contiguous 1-based indices matching
// detection order, and every question has a terminal status.
type ResponseDocument struct {
	// Title is the response title, derived from the request file name.
	Title string

	// GeneratedAt is when assembly happened.
	GeneratedAt time.Time

	// Summary is the executive summary text.
	Summary string

	// Questions is the ordered answered-question set.
	Questions []AnsweredQuestion
}
