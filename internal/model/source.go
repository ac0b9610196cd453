package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// SourceRecord represents one scraped document as delivered by the
// scraping collaborator. Records are immutable: the pipeline reads
// them, it never writes them.
type SourceRecord struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Title       string     `json:"title,omitempty"`
	RawText     string     `json:"raw_text"`
	TextHash    string     `json:"text_hash,omitempty"` // SHA-256 of RawText
	PublishedAt *time.Time `json:"published_at,omitempty"`
	IsEUSource  bool       `json:"is_eu_source,omitempty"`
	SourceType  string     `json:"source_type,omitempty"` // press_release, annual_report, news, ...
}

// HasText reports whether the record carries usable text. Sources that
// failed upstream fetching arrive with an empty RawText.
func (s SourceRecord) HasText() bool {
	return s.RawText != ""
}

// HashText generates the SHA-256 content hash used for TextHash
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// HashShort returns the first 16 hex characters of the content hash
func HashShort(text string) string {
	return HashText(text)[:16]
}
