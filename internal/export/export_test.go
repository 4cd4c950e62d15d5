package export

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattletale/internal/engine"
)

func loadedEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New()
	dit := `DOM\A:1:aad3b435b51404eeaad3b435b51404ee:bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb` + "\n" +
		`DOM\B:2:aad3b435b51404eeaad3b435b51404ee:bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb` + "\n" +
		`DOM\Solo:3:aad3b435b51404eeaad3b435b51404ee:cccccccccccccccccccccccccccccccc`
	pot := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb:pw"
	e.LoadFromStrings([]string{dit}, []string{pot}, nil)
	return e
}

func TestSaveSharedHashesCSV(t *testing.T) {
	e := loadedEngine(t)
	run, err := NewRun(t.TempDir())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	require.NoError(t, run.SaveSharedHashesCSV(e))

	contents, err := os.ReadFile(run.SharedHashesPath())
	require.NoError(t, err)
	csv := string(contents)

	assert.Contains(t, csv, "Hash,Username")
	assert.Contains(t, csv, `bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb,DOM\A`)
	assert.Contains(t, csv, `bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb,DOM\B`)
	// Solo's hash is not shared, so it never appears.
	assert.NotContains(t, csv, "cccccccccccccccccccccccccccccccc")
}

func TestSaveUserPassTXT(t *testing.T) {
	e := loadedEngine(t)
	run, err := NewRun(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, run.SaveUserPassTXT(e))

	contents, err := os.ReadFile(run.UserPassPath())
	require.NoError(t, err)
	txt := string(contents)

	assert.Contains(t, txt, `DOM\A:pw`)
	assert.Contains(t, txt, `DOM\B:pw`)
	// Uncracked entries are excluded.
	assert.NotContains(t, txt, "Solo")
}

func TestNewRunCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/out"
	run, err := NewRun(dir)
	require.NoError(t, err)

	info, err := os.Stat(run.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
