package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListing_PadsAndCutsRows(t *testing.T) {
	out := newListing("ID", "Words").rightAlign(1)
	out.add("ja-ht-1", 12, "dropped")
	out.add("ja-final")

	got := out.String()
	assert.Contains(t, got, "ja-ht-1")
	assert.Contains(t, got, "ja-final")
	assert.NotContains(t, got, "dropped")
	assert.Equal(t, 1, strings.Count(strings.ToUpper(got), "WORDS"))
	assert.Empty(t, newListing().String())
}

func TestBuildVersion_PrefersLinkedVersion(t *testing.T) {
	prev := version
	t.Cleanup(func() { version = prev })

	version = "v1.2.3"
	assert.Equal(t, "v1.2.3", buildVersion())

	version = ""
	assert.NotEmpty(t, buildVersion())
}
