package gitparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceName(t *testing.T) {
	branch, err := ReferenceName("refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestReferenceNameKeepsBranchSlashes(t *testing.T) {
	branch, err := ReferenceName("refs/heads/feature/x")
	require.NoError(t, err)
	assert.Equal(t, "feature/x", branch)
}

func TestReferenceNameFailsWithoutBranchPrefix(t *testing.T) {
	for _, ref := range []string{"", "main", "refs/tags/v1.0.0", "heads/main"} {
		_, err := ReferenceName(ref)
		require.Error(t, err, "ref: %q", ref)

		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	}
}

func TestCommitHeadline(t *testing.T) {
	headline, err := CommitHeadline("fix: frobnicate the gizmo\n\nlong description")
	require.NoError(t, err)
	assert.Equal(t, "fix: frobnicate the gizmo", headline)
}

func TestCommitHeadlineIsIdempotentOnSingleLine(t *testing.T) {
	headline, err := CommitHeadline("fix: frobnicate the gizmo")
	require.NoError(t, err)

	again, err := CommitHeadline(headline)
	require.NoError(t, err)
	assert.Equal(t, headline, again)
}

func TestCommitHeadlineFailsOnEmptyMessage(t *testing.T) {
	_, err := CommitHeadline("")
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
