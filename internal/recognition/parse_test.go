package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseObjectNames(t *testing.T) {
	raw := "sofa\nlamp\nrug\n"
	assert.Equal(t, []string{"sofa", "lamp", "rug"}, ParseObjectNames(raw))
}

func TestParseObjectNamesStripsMarkers(t *testing.T) {
	raw := "- sofa\n* lamp\n1. rug\n2) coffee table\n"
	assert.Equal(t, []string{"sofa", "lamp", "rug", "coffee table"}, ParseObjectNames(raw))
}

func TestParseObjectNamesSkipsChatter(t *testing.T) {
	raw := "Here is what I found:\nsofa\n\nI see a lamp too\nlamp\nObjects:\n"
	assert.Equal(t, []string{"sofa", "lamp"}, ParseObjectNames(raw))
}

func TestParseObjectNamesEmpty(t *testing.T) {
	assert.Empty(t, ParseObjectNames(""))
	assert.Empty(t, ParseObjectNames("\n\n  \n"))
}

func TestParseObjectNamesPreservesInnerDigits(t *testing.T) {
	raw := "3-seater sofa\nmodel 5 lamp\n"
	assert.Equal(t, []string{"3-seater sofa", "model 5 lamp"}, ParseObjectNames(raw))
}
