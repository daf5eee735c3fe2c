package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendview-dev/spendview/internal/audit"
)

func TestTeach_RelabelsHistory(t *testing.T) {
	dir := initProject(t)
	_, err := runSpendview(t, "--dir", dir, "import", fixturePath("amex.csv"), "--format", "amex")
	require.NoError(t, err)

	out, err := runSpendview(t, "--dir", dir, "teach", "FSP*TWO BLOKES BREWIMOUNT PLEASAN SC", "Dining")
	require.NoError(t, err, "teach failed: %s", out)
	assert.Contains(t, out, "Learned TWO BLOKES BREWIMOUNT PLEASAN -> Dining (1 transactions relabeled)")

	byPattern := transactionsByPattern(t, dir)
	assert.Equal(t, "Dining", byPattern["TWO BLOKES BREWIMOUNT PLEASAN"].Category)

	// Teaching the same pair again changes nothing.
	out, err = runSpendview(t, "--dir", dir, "teach", "FSP*TWO BLOKES BREWIMOUNT PLEASAN SC", "Dining")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 transactions relabeled)")

	// A different category replaces the old mapping and says so.
	out, err = runSpendview(t, "--dir", dir, "teach", "TWO BLOKES BREWIMOUNT PLEASAN", "Entertainment")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 transactions relabeled), replacing Dining")
}

func TestTeach_AppliesToLaterImports(t *testing.T) {
	dir := initProject(t)

	// Learned mappings beat keyword rules: Harris Teeter would
	// otherwise land in Grocery.
	_, err := runSpendview(t, "--dir", dir, "teach", "HARRIS TEETER #0423 MOUNT PLEASANT SC 29464", "Dining")
	require.NoError(t, err)

	_, err = runSpendview(t, "--dir", dir, "import", fixturePath("amex.csv"), "--format", "amex")
	require.NoError(t, err)

	byPattern := transactionsByPattern(t, dir)
	assert.Equal(t, "Dining", byPattern["HARRIS TEETER #0423 MOUNT PLEASANT"].Category)
}

func TestTeach_EmptyMerchant(t *testing.T) {
	dir := initProject(t)

	out, err := runSpendview(t, "--dir", dir, "teach", "", "Dining")
	require.Error(t, err)
	assert.Contains(t, out, "normalizes to an empty pattern")
}

func TestTeach_AuditTrail(t *testing.T) {
	dir := initProject(t)
	_, err := runSpendview(t, "--dir", dir, "import", fixturePath("amex.csv"), "--format", "amex")
	require.NoError(t, err)

	_, err = runSpendview(t, "--dir", dir, "teach", "NETFLIX.COM NETFLIX.COM", "Streaming")
	require.NoError(t, err)

	entries, err := audit.Read(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, "teach", last.Action)
	assert.Equal(t, "NETFLIX.COM NETFLIX.COM", last.Pattern)
	assert.Equal(t, 1, last.Count)
	assert.Equal(t, "category=Streaming", last.Details)
}

func TestMappings_ListAndRemove(t *testing.T) {
	dir := initProject(t)
	_, err := runSpendview(t, "--dir", dir, "teach", "FSP*TWO BLOKES BREWIMOUNT PLEASAN SC", "Dining")
	require.NoError(t, err)

	out, err := runSpendview(t, "--dir", dir, "mappings")
	require.NoError(t, err)
	assert.Contains(t, out, "PATTERN")
	assert.Contains(t, out, "TWO BLOKES BREWIMOUNT PLEASAN")
	assert.Contains(t, out, "Dining")

	// Remove accepts the raw merchant string, not just the pattern.
	out, err = runSpendview(t, "--dir", dir, "mappings", "remove", "FSP*TWO BLOKES BREWIMOUNT PLEASAN SC")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed mapping for TWO BLOKES BREWIMOUNT PLEASAN")

	out, err = runSpendview(t, "--dir", dir, "mappings")
	require.NoError(t, err)
	assert.Contains(t, out, "No learned mappings")

	out, err = runSpendview(t, "--dir", dir, "mappings", "remove", "TWO BLOKES BREWIMOUNT PLEASAN")
	require.Error(t, err)
	assert.Contains(t, out, "no learned mapping for")
}

func TestMappings_RemoveKeepsRelabeledHistory(t *testing.T) {
	dir := initProject(t)
	_, err := runSpendview(t, "--dir", dir, "import", fixturePath("amex.csv"), "--format", "amex")
	require.NoError(t, err)
	_, err = runSpendview(t, "--dir", dir, "teach", "TWO BLOKES BREWIMOUNT PLEASAN", "Dining")
	require.NoError(t, err)
	_, err = runSpendview(t, "--dir", dir, "mappings", "remove", "TWO BLOKES BREWIMOUNT PLEASAN")
	require.NoError(t, err)

	byPattern := transactionsByPattern(t, dir)
	assert.Equal(t, "Dining", byPattern["TWO BLOKES BREWIMOUNT PLEASAN"].Category,
		"removing a mapping should not undo past relabels")

	s := openStore(t, dir)
	mappings, err := s.Mappings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mappings)
}
