package attempt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RecorderPath is the recorder endpoint relative to the server base URL.
const RecorderPath = "/api/pbq-attempts"

// HTTPRecorder posts submissions to the recorder endpoint in the background.
// Notify never blocks and never reports failure to the caller; failures are
// logged. A cookie jar keeps the server-issued session across posts.
type HTTPRecorder struct {
	url     string
	client  *http.Client
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

type RecorderOption func(*HTTPRecorder)

func WithHTTPClient(c *http.Client) RecorderOption { return func(r *HTTPRecorder) { r.client = c } }

func WithRecorderLogger(l *zap.Logger) RecorderOption { return func(r *HTTPRecorder) { r.log = l } }

func WithPostTimeout(d time.Duration) RecorderOption { return func(r *HTTPRecorder) { r.timeout = d } }

func NewHTTPRecorder(baseURL string, opts ...RecorderOption) *HTTPRecorder {
	jar, _ := cookiejar.New(nil) // only fails on a non-nil Options with a bad PublicSuffixList
	r := &HTTPRecorder{
		url:     strings.TrimRight(baseURL, "/") + RecorderPath,
		client:  &http.Client{Jar: jar},
		log:     zap.NewNop(),
		timeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *HTTPRecorder) Notify(sub Submission) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.post(sub); err != nil {
			r.log.Warn("record attempt failed",
				zap.String("pbq_type", sub.PBQType),
				zap.Int("pbq_number", sub.PBQNumber),
				zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight posts finish.
func (r *HTTPRecorder) Wait() { r.wg.Wait() }

func (r *HTTPRecorder) post(sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("recorder returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}
