package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattletale/internal/credential"
)

func cred(t *testing.T, logon, lm, nt, cleartext string) credential.Credential {
	t.Helper()
	c := credential.New()
	c.FillFromDIT(logon, lm, nt)
	c.Crack(cleartext)
	return c
}

func TestAnalyzeEmptySelection(t *testing.T) {
	s := Analyze(nil)
	assert.Equal(t, 0, s.AllCount)
	assert.Equal(t, "0.00%", s.CrackedPercentage)
	assert.Equal(t, "0.00%", s.UniqueCrackedPercentage)
}

func TestAnalyze(t *testing.T) {
	creds := []credential.Credential{
		cred(t, `DOM\A`, credential.NullHashLM, "nt1", "pw"),
		cred(t, `DOM\B`, credential.NullHashLM, "nt2", "pw"),
		cred(t, `DOM\C`, credential.NullHashLM, "nt3", ""),
		cred(t, `DOM\D`, credential.NullHashLM, "nt3", ""),
	}
	s := Analyze(creds)
	assert.Equal(t, 4, s.AllCount)
	assert.Equal(t, 2, s.CrackedCount)
	assert.Equal(t, "50.00%", s.CrackedPercentage)
	assert.Equal(t, 3, s.UniqueCount)
	assert.Equal(t, 1, s.UniqueCrackedCount)
	assert.Equal(t, "33.33%", s.UniqueCrackedPercentage)
}

func TestCalculateBuckets(t *testing.T) {
	creds := []credential.Credential{
		cred(t, `DOM\user1`, credential.NullHashLM, "nt1", "pw"),
		cred(t, `DOM\HOST$`, credential.NullHashLM, "nt2", ""),
		cred(t, `DOM\empty`, credential.NullHashLM, credential.NullHashNT, ""),
		cred(t, `nodomain`, "lm1", credential.NullHashNT, ""),
		cred(t, `DOM\both`, "lm2", "nt3", ""),
	}
	s := Calculate(creds)

	assert.Equal(t, 4, s.User.AllCount) // user1, empty, nodomain, both
	assert.Equal(t, 1, s.Machine.AllCount)
	assert.Equal(t, 1, s.ValidMachine.AllCount)
	assert.Equal(t, 2, s.ValidDomainUser.AllCount) // user1, both
	assert.Equal(t, 2, s.LM.AllCount)              // nodomain, both
	assert.Equal(t, 3, s.NT.AllCount)              // user1, HOST$, both
	assert.Equal(t, 1, s.Both.AllCount)
	assert.Equal(t, 1, s.Null.AllCount)
	assert.Equal(t, 1, s.NoDomain.AllCount)
}

func TestDomainBreakdown(t *testing.T) {
	creds := []credential.Credential{
		cred(t, `D1\A1`, credential.NullHashLM, "nt1", "pass"),
		cred(t, `D1\A2`, credential.NullHashLM, "nt2", "pass"),
		cred(t, `D2\B1`, credential.NullHashLM, "nt3", "word"),
		cred(t, `bare`, credential.NullHashLM, "nt4", ""),
	}
	byDomain := DomainBreakdown(creds)
	require.Len(t, byDomain, 2)
	assert.Equal(t, 2, byDomain["D1"].AllCount)
	assert.Equal(t, 2, byDomain["D1"].CrackedCount)
	assert.Equal(t, 1, byDomain["D2"].AllCount)
}

func TestTopReusedPasswords(t *testing.T) {
	creds := []credential.Credential{
		cred(t, `D\A`, credential.NullHashLM, "nt1", "pw"),
		cred(t, `D\B`, credential.NullHashLM, "nt2", "pw"),
		cred(t, `D\C`, credential.NullHashLM, "nt3", "other"),
	}

	top := TopReusedPasswords(creds, 1)
	assert.Empty(t, cmp.Diff([]PasswordCount{{Password: "pw", Count: 2}}, top))
}

func TestTopReusedPasswordsTieBreaksLexically(t *testing.T) {
	creds := []credential.Credential{
		cred(t, `D\A`, credential.NullHashLM, "nt1", "zebra"),
		cred(t, `D\B`, credential.NullHashLM, "nt2", "apple"),
		cred(t, `D\C`, credential.NullHashLM, "nt3", "apple"),
		cred(t, `D\D`, credential.NullHashLM, "nt4", "zebra"),
	}
	top := TopReusedPasswords(creds, 10)
	want := []PasswordCount{
		{Password: "apple", Count: 2},
		{Password: "zebra", Count: 2},
	}
	assert.Empty(t, cmp.Diff(want, top))
}

func TestTopReusedPasswordsIgnoresUncracked(t *testing.T) {
	creds := []credential.Credential{
		cred(t, `D\A`, credential.NullHashLM, "nt1", ""),
	}
	assert.Empty(t, TopReusedPasswords(creds, 5))
}
