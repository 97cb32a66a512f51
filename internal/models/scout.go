package models

// Adoption links an adoption thread to its scout and adoptee.
type Adoption struct {
	ThreadID  int64 `json:"threadId"`
	ScoutID   int64 `json:"scoutId"`
	AdopteeID int64 `json:"adopteeId"`
}

type ScoutFeedback struct {
	ID        int64 `json:"id"`
	ScoutID   int64 `json:"scoutId"`
	AdopteeID int64 `json:"adopteeId"`
}
