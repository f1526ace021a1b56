package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homedex/internal/domain"
	"homedex/internal/report"
)

func TestRenderProducesPDF(t *testing.T) {
	analyzedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	home := &domain.Home{ID: "h1", Name: "Beach House"}
	room := &domain.Room{
		ID:             "r1",
		HomeID:         "h1",
		Name:           "Living Room",
		ObjectNames:    []string{"sofa", "lamp", "rug"},
		LastAnalyzedAt: &analyzedAt,
	}

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, home, room))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderManyObjectsPaginates(t *testing.T) {
	names := make([]string, 60)
	for i := range names {
		names[i] = "object"
	}
	room := &domain.Room{ID: "r1", Name: "Garage", ObjectNames: names}

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, nil, room))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderNoResults(t *testing.T) {
	room := &domain.Room{ID: "r1", Name: "Empty"}

	var buf bytes.Buffer
	assert.Error(t, report.Render(&buf, nil, room))
}

func TestFilename(t *testing.T) {
	home := &domain.Home{Name: "Beach House"}
	room := &domain.Room{Name: "Living Room"}

	assert.Equal(t, "Beach_House_Living_Room_analysis.pdf", report.Filename(home, room))
	assert.Equal(t, "Living_Room_analysis.pdf", report.Filename(nil, room))
}
