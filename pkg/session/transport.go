package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
)

//Transport is the backend the session persists corrections to. Implementations report success or failure only
type Transport interface {
	Submit(ctx context.Context, containerID string, records []annotation.WireRecord) error
	DeleteRecords(ctx context.Context, records []annotation.WireRecord) error
}

//Backend paths, relative to the configured backend url
const (
	PathRecords           = "/api/records/csv"
	PathPersistentRecords = "/api/records/persistentCsv"
	PathSubmission        = "/api/create/submission"
	PathDeleteRecords     = "/api/delete/records"
)

//HTTPTransport talks to the review backend with bearer token authentication
type HTTPTransport struct {
	log     logs.Log
	baseURL string
	token   string
	client  *http.Client
}

//NewHTTPTransport returns a transport for given backend url
func NewHTTPTransport(log logs.Log, baseURL, token string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type submissionRequest struct {
	ContainerID string                   `json:"containerId"`
	RecordDtos  []annotation.WireRecord `json:"recordDtos"`
}

type deleteRequest struct {
	RecordDtos []annotation.WireRecord `json:"recordDtos"`
}

type idRequest struct {
	ID string `json:"id"`
}

//Submit upserts the changed records of a container
func (t *HTTPTransport) Submit(ctx context.Context, containerID string, records []annotation.WireRecord) error {
	return t.post(ctx, PathSubmission, submissionRequest{ContainerID: containerID, RecordDtos: records}, nil)
}

//DeleteRecords reports records deleted by the reviewer
func (t *HTTPTransport) DeleteRecords(ctx context.Context, records []annotation.WireRecord) error {
	return t.post(ctx, PathDeleteRecords, deleteRequest{RecordDtos: records}, nil)
}

//FetchRecords returns the current corrected records of a container
func (t *HTTPTransport) FetchRecords(ctx context.Context, containerID string) ([]annotation.WireRecord, error) {
	var res []annotation.WireRecord
	if err := t.post(ctx, PathRecords, idRequest{ID: containerID}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

//FetchPredictions returns the untouched model predictions of a container
func (t *HTTPTransport) FetchPredictions(ctx context.Context, containerID string) ([]annotation.WireRecord, error) {
	var res []annotation.WireRecord
	if err := t.post(ctx, PathPersistentRecords, idRequest{ID: containerID}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (t *HTTPTransport) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("post: Error encoding request to '%s', got '%w'", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post: Error creating request to '%s', got '%w'", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: Error sending request %s to '%s', got '%w'", requestID, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post: Request %s to '%s' returned %d: %s", requestID, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	t.log.Debugf("post: %s %s done in %v", requestID, path, time.Since(start))

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("post: Error decoding response of '%s', got '%w'", path, err)
	}
	return nil
}
