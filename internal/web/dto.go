package web

import (
	"time"

	"homedex/internal/domain"
)

type homeJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OwnerID       string    `json:"ownerId"`
	Description   string    `json:"description,omitempty"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type roomJSON struct {
	ID                string     `json:"id"`
	HomeID            string     `json:"homeId"`
	Name              string     `json:"name"`
	CreatedAt         time.Time  `json:"createdAt"`
	ObjectNames       []string   `json:"objectNames"`
	IsAnalyzing       bool       `json:"isAnalyzing"`
	LastAnalyzedAt    *time.Time `json:"lastAnalyzedAt"`
	AnalyzedPhotoURLs []string   `json:"analyzedPhotoUrls"`
}

func toHomeJSON(h *domain.Home) homeJSON {
	return homeJSON{
		ID:            h.ID,
		Name:          h.Name,
		OwnerID:       h.OwnerID,
		Description:   h.Description,
		CoverImageURL: h.CoverImageURL,
		CreatedAt:     h.CreatedAt,
	}
}

func toRoomJSON(r *domain.Room) roomJSON {
	return roomJSON{
		ID:                r.ID,
		HomeID:            r.HomeID,
		Name:              r.Name,
		CreatedAt:         r.CreatedAt,
		ObjectNames:       r.ObjectNames,
		IsAnalyzing:       r.IsAnalyzing,
		LastAnalyzedAt:    r.LastAnalyzedAt,
		AnalyzedPhotoURLs: r.AnalyzedPhotoURLs,
	}
}
