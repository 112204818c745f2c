// Package ingest normalizes the three accepted study inputs (PDF bytes, a
// video URL, pasted text) into one plain-text document.
package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/neurolearn/neurosched/internal/model"
	"github.com/neurolearn/neurosched/internal/transcript"
)

var (
	ErrUnreadable = errors.New("document is not readable")
	ErrInvalidURL = errors.New("unrecognized video url")
	// ErrNoCaptions is the fixed reason shown to users; the collaborator's
	// underlying cause is deliberately not surfaced verbatim.
	ErrNoCaptions = errors.New("video must have captions enabled")
)

// Source is exactly one of the three inputs; Type selects which field is read.
type Source struct {
	Type     model.SourceType
	PDF      []byte
	VideoURL string
	Text     string
}

type Ingestor struct {
	transcripts transcript.Fetcher
}

func New(transcripts transcript.Fetcher) *Ingestor {
	return &Ingestor{transcripts: transcripts}
}

func (g *Ingestor) Ingest(ctx context.Context, src Source) (model.Document, error) {
	switch src.Type {
	case model.SourcePDF:
		text, err := extractPDFText(src.PDF)
		if err != nil {
			return model.Document{}, err
		}
		return model.Document{Source: model.SourcePDF, Content: text}, nil
	case model.SourceVideoTranscript:
		return g.ingestVideo(ctx, src.VideoURL)
	case model.SourceRawText:
		// Pass-through; whether empty text counts as "no content" is the
		// caller's call, not an ingestion error.
		return model.Document{Source: model.SourceRawText, Content: src.Text}, nil
	default:
		return model.Document{}, ErrUnreadable
	}
}

func (g *Ingestor) ingestVideo(ctx context.Context, rawURL string) (model.Document, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return model.Document{}, err
	}
	segments, err := g.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return model.Document{}, ErrNoCaptions
	}
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, seg.Text)
	}
	return model.Document{
		Source:  model.SourceVideoTranscript,
		Content: strings.Join(lines, "\n"),
	}, nil
}
