package model

// SourceType tags where a document's text came from.
type SourceType string

const (
	SourcePDF             SourceType = "pdf"
	SourceVideoTranscript SourceType = "video-transcript"
	SourceRawText         SourceType = "raw-text"
)

// Document is the normalized plain-text form of one study input.
// It is created once by the ingest layer and consumed once by the analyzer.
type Document struct {
	Source  SourceType `json:"source"`
	Content string     `json:"content"`
}

func (d Document) Empty() bool {
	for _, r := range d.Content {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
