package api

import (
	"context"

	"github.com/youruser/eidqr/internal/export"
)

// sharePayload is what the browser hands to its native share surface.
type sharePayload struct {
	Capability string         `json:"capability"`
	Title      string         `json:"title,omitempty"`
	Text       string         `json:"text"`
	URL        string         `json:"url,omitempty"`
	Files      []artifactView `json:"files,omitempty"`
}

type sharePlatform interface {
	payload() sharePayload
}

func newSharePlatform(capability string) sharePlatform {
	switch capability {
	case "link":
		return &linkPlatform{}
	case "clipboard":
		return &clipboardPlatform{}
	case "none":
		return nonePlatform{}
	default:
		return &filePlatform{}
	}
}

// filePlatform records an attachment share.
type filePlatform struct{ p sharePayload }

func (f *filePlatform) ShareFiles(_ context.Context, d export.ShareData) error {
	f.p = sharePayload{Capability: "files", Title: d.Title, Text: d.Text}
	for _, a := range d.Files {
		f.p.Files = append(f.p.Files, viewArtifact(a))
	}
	return nil
}

func (f *filePlatform) payload() sharePayload { return f.p }

// linkPlatform records a text and URL share.
type linkPlatform struct{ p sharePayload }

func (l *linkPlatform) ShareLink(_ context.Context, d export.ShareData) error {
	l.p = sharePayload{Capability: "link", Title: d.Title, Text: d.Text, URL: d.URL}
	return nil
}

func (l *linkPlatform) payload() sharePayload { return l.p }

// clipboardPlatform records the text the browser should copy.
type clipboardPlatform struct{ p sharePayload }

func (cb *clipboardPlatform) WriteText(_ context.Context, text string) error {
	cb.p = sharePayload{Capability: "clipboard", Text: text}
	return nil
}

func (cb *clipboardPlatform) payload() sharePayload { return cb.p }

type nonePlatform struct{}

func (nonePlatform) payload() sharePayload { return sharePayload{Capability: "none"} }
