package domain

import "time"

type Home struct {
	ID            string
	Name          string
	OwnerID       string
	Description   string
	CoverImageURL string
	CreatedAt     time.Time
}

// Room carries analysis state alongside the basic record. ObjectNames is nil
// for a room that has never been analyzed; after a completed analysis it is
// non-empty and AnalyzedPhotoURLs holds the exact photos that produced it.
// AnalysisRunID identifies the in-flight run while IsAnalyzing is true.
type Room struct {
	ID                string
	HomeID            string
	Name              string
	CreatedAt         time.Time
	ObjectNames       []string
	IsAnalyzing       bool
	AnalysisRunID     string
	LastAnalyzedAt    *time.Time
	AnalyzedPhotoURLs []string
}
