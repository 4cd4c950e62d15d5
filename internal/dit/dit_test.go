package dit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	line := `DOMAIN\User:1111:aad3b435b51404eeaad3b435b51404ee:8846f7eaee8fb117ad06bdd830b7586c`
	c, err := ParseLine(line)
	require.NoError(t, err)

	assert.Equal(t, "User", c.SAMAccountName)
	assert.Equal(t, "DOMAIN", c.Domain)
	assert.True(t, c.IsHashTypeNT)
	assert.False(t, c.IsHashTypeLM)
	assert.Equal(t, "8846f7eaee8fb117ad06bdd830b7586c", c.HashText)
}

func TestParseLineExtraFieldsIgnored(t *testing.T) {
	line := `DOM\A:1:aad3b435b51404eeaad3b435b51404ee:8846f7eaee8fb117ad06bdd830b7586c:::extra:fields`
	c, err := ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, "A", c.SAMAccountName)
	assert.Equal(t, "8846f7eaee8fb117ad06bdd830b7586c", c.HashText)
}

func TestParseLineMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no colons", "INVALID"},
		{"two fields", "a:b"},
		{"three fields", "a:b:c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			assert.Error(t, err)

			var malformed *ErrMalformedLine
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestParseContentsSkipsBlankAndMalformed(t *testing.T) {
	contents := "\nINVALID\nDOMAIN\\A:1:x:y:z:extra\nDOMAIN\\B:2::31d6cfe0d16ae931b73c59d7e0c089c0\n"
	creds := ParseContents(contents)
	require.Len(t, creds, 2)
	assert.Equal(t, "A", creds[0].SAMAccountName)
	assert.Equal(t, "B", creds[1].SAMAccountName)
}
