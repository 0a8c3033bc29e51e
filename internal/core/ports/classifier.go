package ports

import "context"

// Classifier is the external inference collaborator. A nil confidence signals
// the backend's "Unknown" policy decision: the model declined to commit to
// the returned label.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (label string, confidence *float64, err error)
}
