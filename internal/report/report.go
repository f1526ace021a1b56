// Package report renders the per-room analysis summary PDF.
package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"homedex/internal/domain"
)

// Render writes an A4 PDF summarizing the room's analysis: home and room
// name, when the analysis ran, and a numbered list of identified objects.
// Rooms without results are rejected.
func Render(w io.Writer, home *domain.Home, room *domain.Room) error {
	if room == nil || len(room.ObjectNames) == 0 {
		return fmt.Errorf("room has no analysis results")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	title := "Object Analysis for: " + room.Name
	if home != nil && home.Name != "" {
		title = fmt.Sprintf("Object Analysis for: %s - %s", home.Name, room.Name)
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(14, 22, title)

	if room.LastAnalyzedAt != nil {
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(14, 30, "Analyzed on: "+room.LastAnalyzedAt.Format("January 2, 2006 at 3:04 PM"))
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(14, 45, "Identified Objects:")

	pdf.SetFont("Helvetica", "", 12)
	y := 55.0
	for i, name := range room.ObjectNames {
		if y > 270 {
			pdf.AddPage()
			y = 20
		}
		pdf.Text(14, y, fmt.Sprintf("%d. %s", i+1, name))
		y += 10
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// Filename builds the suggested download name for the report.
func Filename(home *domain.Home, room *domain.Room) string {
	name := sanitize(room.Name)
	if home != nil && home.Name != "" {
		name = sanitize(home.Name) + "_" + name
	}
	return name + "_analysis.pdf"
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
