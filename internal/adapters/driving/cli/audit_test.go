package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/pptx/pptxtest"
)

func TestAuditListCmd_Empty(t *testing.T) {
	setupTestServices(t, nil)

	out, err := execute(t, "audit", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No commits recorded.")
}

func TestAuditListCmd_AfterUpdate(t *testing.T) {
	setupTestServices(t, nil)
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithNotes("a"), pptxtest.WithoutNotes())

	_, err := execute(t, "notes", "update", deck, "--slide", "1", "--text", "x", "--in-place")
	require.NoError(t, err)

	out, err := execute(t, "audit", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "File: "+deck+" (in place)")
	assert.Contains(t, out, "Slides: [1]")
	assert.Contains(t, out, "Total: 1 entries")
}

func TestAuditListCmd_Limit(t *testing.T) {
	ts := setupTestServices(t, nil)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, ts.audit.Record(ctx, domain.AuditEntry{
			ID:          id,
			SourcePath:  "/in.pptx",
			OutputPath:  "/out.pptx",
			Slides:      []int{2},
			Skipped:     []int{3},
			CommittedAt: time.Now(),
		}))
	}

	out, err := execute(t, "audit", "list", "--limit", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "Source: /in.pptx")
	assert.Contains(t, out, "Output: /out.pptx")
	assert.Contains(t, out, "Skipped: [3]")
	assert.Contains(t, out, "Total: 2 entries")
	assert.NotContains(t, out, "  a\n")
}

func TestAuditListCmd_NotConfigured(t *testing.T) {
	clearServices(t)

	_, err := execute(t, "audit", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit service not configured")
}
