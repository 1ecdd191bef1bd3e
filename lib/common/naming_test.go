package common_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pescuma/git-reblame/lib/common"
)

func TestCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 file", common.Count(1, "file"))
	assert.Equal(t, "2 files", common.Count(2, "file"))
	assert.Equal(t, "0 commits", common.Count(0, "commit"))
	assert.Equal(t, "1,500 lines", common.Count(1500, "line"))
}

func TestSubject(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Fix bug", common.Subject("Fix bug\n\nDetails\n", 50))
	assert.Equal(t, "abcd…", common.Subject("abcdefghij", 5))
}

func TestRelativeTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3 days ago", common.RelativeTime(time.Now().Add(-3*24*time.Hour)))
}
