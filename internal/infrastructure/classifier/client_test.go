package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL}, zerolog.Nop())
}

func TestClient_Classify_ConfidentPrediction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predictions" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[{"label":"tabby cat","probability":0.91},{"label":"tiger cat","probability":0.04}]}`))
	})

	label, confidence, err := client.Classify(context.Background(), []byte("image-bytes"))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if label != "tabby cat" {
		t.Fatalf("unexpected label %q", label)
	}
	if confidence == nil || *confidence != 0.91 {
		t.Fatalf("unexpected confidence %v", confidence)
	}
}

func TestClient_Classify_AmbiguousIsUnknown(t *testing.T) {
	// Top prediction does not double the runner-up: the model is guessing.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[{"label":"wolf","probability":0.40},{"label":"husky","probability":0.35}]}`))
	})

	label, confidence, err := client.Classify(context.Background(), []byte("image-bytes"))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if label != labelUnknown {
		t.Fatalf("expected %q, got %q", labelUnknown, label)
	}
	if confidence != nil {
		t.Fatalf("unknown result must carry nil confidence, got %v", *confidence)
	}
}

func TestClient_Classify_SinglePrediction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[{"label":"goldfish","probability":0.99}]}`))
	})

	label, confidence, err := client.Classify(context.Background(), []byte("image-bytes"))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if label != "goldfish" || confidence == nil {
		t.Fatalf("unexpected result %q %v", label, confidence)
	}
}

func TestClient_Classify_BackendFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	if _, _, err := client.Classify(context.Background(), []byte("image-bytes")); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestClient_Classify_EmptyPredictions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	})

	if _, _, err := client.Classify(context.Background(), []byte("image-bytes")); err == nil {
		t.Fatalf("expected error for empty predictions")
	}
}
