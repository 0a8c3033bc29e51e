package domain

import "time"

// Image records one classification of an uploaded file for a user's history.
// Probability is nil when the classifier declined to commit to a label.
type Image struct {
	ID          string    `json:"id,omitempty"`
	Filename    string    `json:"filename"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Label       string    `json:"label"`
	Probability *float64  `json:"probability,omitempty"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
}
