// Package stats computes aggregate statistics over credential sets: per
// category counts and crack percentages, per-domain breakdowns, and password
// reuse rankings.
package stats

import (
	"fmt"
	"sort"

	"tattletale/internal/credential"
)

// BasicStats is the count/percentage bundle computed for one credential
// selection. Percentages are formatted to two decimals; an empty selection
// yields "0.00%" rather than an error or NaN.
type BasicStats struct {
	AllCount                int
	CrackedCount            int
	CrackedPercentage       string
	UniqueCount             int
	UniqueCrackedCount      int
	UniqueCrackedPercentage string
}

func pct(n, d int) string {
	if d == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(n)/float64(d)*100)
}

// Analyze computes the BasicStats bundle for one selection of credentials.
func Analyze(creds []credential.Credential) BasicStats {
	uniqueHashes := make(map[string]struct{}, len(creds))
	uniquePasswords := make(map[string]struct{})
	cracked := 0
	for i := range creds {
		uniqueHashes[creds[i].HashText] = struct{}{}
		if creds[i].IsCracked {
			cracked++
			uniquePasswords[creds[i].Cleartext] = struct{}{}
		}
	}
	return BasicStats{
		AllCount:                len(creds),
		CrackedCount:            cracked,
		CrackedPercentage:       pct(cracked, len(creds)),
		UniqueCount:             len(uniqueHashes),
		UniqueCrackedCount:      len(uniquePasswords),
		UniqueCrackedPercentage: pct(len(uniquePasswords), len(uniqueHashes)),
	}
}

// Statistics aggregates the standard category selections over a full
// credential set.
type Statistics struct {
	User            BasicStats
	Machine         BasicStats
	ValidDomainUser BasicStats
	ValidMachine    BasicStats
	LM              BasicStats
	NT              BasicStats
	Both            BasicStats
	Null            BasicStats
	NoDomain        BasicStats
}

// Calculate buckets the credential set into the standard categories and
// computes BasicStats for each.
func Calculate(all []credential.Credential) Statistics {
	var user, machine, validDomainUser, validMachine []credential.Credential
	var lm, nt, both, null, noDomain []credential.Credential

	for _, c := range all {
		if c.IsUserAccount {
			user = append(user, c)
			if !c.IsHashNull && c.Domain != "" {
				validDomainUser = append(validDomainUser, c)
			}
		}
		if c.IsMachineAccount {
			machine = append(machine, c)
			if !c.IsHashNull {
				validMachine = append(validMachine, c)
			}
		}
		if !c.IsHashNull {
			if c.IsHashTypeLM {
				lm = append(lm, c)
			}
			if c.IsHashTypeNT {
				nt = append(nt, c)
			}
			if c.IsHashTypeBoth {
				both = append(both, c)
			}
		} else {
			null = append(null, c)
		}
		if c.Domain == "" {
			noDomain = append(noDomain, c)
		}
	}

	return Statistics{
		User:            Analyze(user),
		Machine:         Analyze(machine),
		ValidDomainUser: Analyze(validDomainUser),
		ValidMachine:    Analyze(validMachine),
		LM:              Analyze(lm),
		NT:              Analyze(nt),
		Both:            Analyze(both),
		Null:            Analyze(null),
		NoDomain:        Analyze(noDomain),
	}
}

// DomainBreakdown computes BasicStats per non-empty domain.
func DomainBreakdown(all []credential.Credential) map[string]BasicStats {
	buckets := make(map[string][]credential.Credential)
	for _, c := range all {
		if c.Domain == "" {
			continue
		}
		buckets[c.Domain] = append(buckets[c.Domain], c)
	}
	out := make(map[string]BasicStats, len(buckets))
	for domain, creds := range buckets {
		out[domain] = Analyze(creds)
	}
	return out
}

// PasswordCount pairs a cracked cleartext with its reuse count.
type PasswordCount struct {
	Password string
	Count    int
}

// TopReusedPasswords returns the topN most frequent distinct non-empty
// cleartexts among cracked credentials, ordered by descending count with
// ties broken by ascending password.
func TopReusedPasswords(all []credential.Credential, topN int) []PasswordCount {
	freq := make(map[string]int)
	for i := range all {
		if all[i].IsCracked && all[i].Cleartext != "" {
			freq[all[i].Cleartext]++
		}
	}
	items := make([]PasswordCount, 0, len(freq))
	for password, count := range freq {
		items = append(items, PasswordCount{Password: password, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Password < items[j].Password
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return items
}
