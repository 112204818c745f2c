// Package transcript fetches caption tracks for remote videos. It is the
// boundary collaborator the ingest layer calls; it is never mocked out in
// production, only contracted against.
package transcript

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/neurolearn/neurosched/internal/config"
)

// ErrNotAvailable means the video has no caption track in the requested
// language.
var ErrNotAvailable = errors.New("transcript not available")

// Segment is one caption line with its timing.
type Segment struct {
	Start    float64
	Duration float64
	Text     string
}

type Fetcher interface {
	Fetch(ctx context.Context, videoID string) ([]Segment, error)
}

type Client struct {
	baseURL  string
	language string
	retries  uint
	hc       *http.Client
}

func NewClient(cfg config.TranscriptConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
		retries:  uint(cfg.Retries),
		hc:       &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// Fetch returns the ordered caption segments for the video, retrying
// transient transport failures. A missing caption track is not retried.
func (c *Client) Fetch(ctx context.Context, videoID string) ([]Segment, error) {
	var segments []Segment
	err := retry.Do(
		func() error {
			var err error
			segments, err = c.fetchOnce(ctx, videoID)
			if errors.Is(err, ErrNotAvailable) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.retries),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return segments, nil
}

func (c *Client) fetchOnce(ctx context.Context, videoID string) ([]Segment, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s", c.baseURL, url.QueryEscape(c.language), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotAvailable
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("transcript endpoint status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// The endpoint answers 200 with an empty body when no track exists.
	if len(body) == 0 {
		return nil, ErrNotAvailable
	}
	return parseTrack(body)
}

type trackXML struct {
	Texts []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Value string  `xml:",chardata"`
	} `xml:"text"`
}

func parseTrack(body []byte) ([]Segment, error) {
	var track trackXML
	if err := xml.Unmarshal(body, &track); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	if len(track.Texts) == 0 {
		return nil, ErrNotAvailable
	}
	segments := make([]Segment, 0, len(track.Texts))
	for _, t := range track.Texts {
		segments = append(segments, Segment{
			Start:    t.Start,
			Duration: t.Dur,
			Text:     html.UnescapeString(t.Value),
		})
	}
	return segments, nil
}
