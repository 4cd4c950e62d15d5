// Package credential defines the Credential data model parsed from NTDS
// export lines, tracking hash types (LM/NT/both/null), crack status, and
// high-value-target flags. Credentials are deduplicated elsewhere by the
// composite key of down-level logon name and effective hash text.
package credential

import (
	"strings"
	"unicode"
)

// Well-known null hash constants. Comparison is exact and case-sensitive.
const (
	NullHashLM = "aad3b435b51404eeaad3b435b51404ee"
	NullHashNT = "31d6cfe0d16ae931b73c59d7e0c089c0"
)

// Credential represents one parsed account entry with associated hash
// metadata and derived state.
type Credential struct {
	DownLevelLogonName string
	SAMAccountName     string
	UserPrincipalName  string
	Domain             string
	DomainNetBIOS      string

	IsUserAccount    bool
	IsMachineAccount bool

	// HashText is the effective hash used for crack correlation and
	// deduplication: the non-null LM value, overridden by the non-null NT
	// value when both are present. Empty when both hashes are null.
	HashText   string
	LMHashText string
	NTHashText string
	Cleartext  string

	IsHashTypeLM   bool
	IsHashTypeNT   bool
	IsHashTypeBoth bool
	IsHashNull     bool
	IsCracked      bool

	IsTarget        bool
	TargetFilenames []string
}

// New returns an empty credential. Accounts default to user until a trailing
// '$' marks them as machine accounts.
func New() Credential {
	return Credential{IsUserAccount: true}
}

// Key returns the composite identity used for deduplication. Two credentials
// with the same key collapse to one representative.
func (c *Credential) Key() string {
	return c.DownLevelLogonName + ":" + c.HashText
}

// FillWithUsername populates identity fields from a `DOMAIN\user` or bare
// `user` value.
func (c *Credential) FillWithUsername(username string) {
	c.DownLevelLogonName = username
	c.IsMachineAccount = strings.HasSuffix(strings.TrimRightFunc(c.DownLevelLogonName, unicode.IsSpace), "$")
	c.IsUserAccount = !c.IsMachineAccount

	if domain, account, ok := strings.Cut(c.DownLevelLogonName, `\`); ok {
		c.Domain = strings.TrimSpace(domain)
		c.DomainNetBIOS = c.Domain
		c.SAMAccountName = strings.TrimSpace(account)
	} else {
		c.SAMAccountName = c.DownLevelLogonName
	}
	if c.Domain != "" {
		c.UserPrincipalName = c.SAMAccountName + "@" + c.Domain
	} else {
		c.UserPrincipalName = c.SAMAccountName
	}
}

// FillFromDIT populates identity and hash fields from the parts of a DIT
// export line. The assignment order below is load-bearing: a null/null pair
// marks the hash null, any non-null side clears that flag, and a non-null NT
// value overwrites the effective hash last so NT wins when both are present.
func (c *Credential) FillFromDIT(downLevelLogonName, lmHashText, ntHashText string) {
	c.FillWithUsername(downLevelLogonName)
	c.LMHashText = lmHashText
	c.NTHashText = ntHashText

	if c.LMHashText == NullHashLM && c.NTHashText == NullHashNT {
		c.IsHashNull = true
	}
	if c.LMHashText != NullHashLM {
		c.IsHashTypeLM = true
		c.IsHashNull = false
		c.HashText = c.LMHashText
	}
	if c.NTHashText != NullHashNT {
		c.IsHashTypeNT = true
		c.IsHashNull = false
		c.HashText = c.NTHashText
	}
	if c.IsHashTypeLM && c.IsHashTypeNT {
		c.IsHashTypeBoth = true
	}
}

// Crack records the recovered cleartext and marks the credential cracked when
// the cleartext is non-empty. An empty cleartext is a no-op.
func (c *Credential) Crack(cleartext string) {
	c.Cleartext = cleartext
	if c.Cleartext != "" {
		c.IsCracked = true
	}
}
