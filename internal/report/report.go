// Package report renders the human-readable terminal summary: overall hash
// statistics, high-value target status, shared-hash groupings, per-domain
// breakdowns, and top reused passwords.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tattletale/internal/credential"
	"tattletale/internal/engine"
	"tattletale/internal/stats"
)

// DefaultTopPasswords is the number of reused passwords shown when the caller
// does not override it.
const DefaultTopPasswords = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))  // cyan
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))  // yellow
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))  // blue
	domainStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))  // green
	crackedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))             // red
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func sectionHeader(title string) string {
	return "\n" + title + "\n" + strings.Repeat("─", lipgloss.Width(title)) + "\n\n"
}

// RenderSummary renders the full summary with the default top-N.
func RenderSummary(e *engine.Engine) string {
	return RenderSummaryWithTop(e, DefaultTopPasswords)
}

// RenderSummaryWithTop renders the full summary, limiting the reused-password
// section to topN entries.
func RenderSummaryWithTop(e *engine.Engine, topN int) string {
	var out strings.Builder
	out.WriteString(titleStyle.Render("TattleTale: Domain Secrets (NTDS) Analysis Results"))
	out.WriteString("\n")

	writeStatistics(&out, e)
	writeTargets(&out, e)

	shared := sharedHashGroups(e.Credentials)
	writeSharedHashes(&out, shared, true)
	writeSharedHashes(&out, shared, false)

	writeDomainBreakdown(&out, e)
	writeTopPasswords(&out, e, topN)

	return out.String()
}

func writeStatistics(out *strings.Builder, e *engine.Engine) {
	s := stats.Calculate(e.Credentials)
	out.WriteString(sectionHeader(sectionStyle.Render("Password Hash Statistics")))
	fmt.Fprintf(out, "Total creds: %d\n", len(e.Credentials))
	fmt.Fprintf(out, "All User Hashes: %d\n", s.User.AllCount)
	fmt.Fprintf(out, "All Machine Hashes: %d\n", s.Machine.AllCount)
	fmt.Fprintf(out, "Removable Empty Hashes: %d\n", s.Null.AllCount)
	fmt.Fprintf(out, "No-Domain Hashes: %d\n", s.NoDomain.AllCount)
	fmt.Fprintf(out, "Remaining User Hashes: %d\n", s.ValidDomainUser.AllCount)

	for _, bucket := range []struct {
		label string
		stats stats.BasicStats
	}{
		{"Valid Domain User", s.ValidDomainUser},
		{"No Domain", s.NoDomain},
		{"LM", s.LM},
		{"NT", s.NT},
	} {
		out.WriteString(labelStyle.Render(bucket.label))
		out.WriteString("\n")
		writeBasicStats(out, bucket.stats)
	}
}

func writeBasicStats(out *strings.Builder, s stats.BasicStats) {
	fmt.Fprintf(out, "  All: %d\n", s.AllCount)
	fmt.Fprintf(out, "  Cracked: %d\n", s.CrackedCount)
	fmt.Fprintf(out, "  Cracked Percentage: %s\n", s.CrackedPercentage)
	fmt.Fprintf(out, "  Unique: %d\n", s.UniqueCount)
	fmt.Fprintf(out, "  Cracked Unique: %d\n", s.UniqueCrackedCount)
	fmt.Fprintf(out, "  Cracked Unique Percentage: %s\n", s.UniqueCrackedPercentage)
}

func writeTargets(out *strings.Builder, e *engine.Engine) {
	var cracked, uncracked []*credential.Credential
	for i := range e.Credentials {
		c := &e.Credentials[i]
		if !c.IsTarget {
			continue
		}
		if c.IsCracked {
			cracked = append(cracked, c)
		} else {
			uncracked = append(uncracked, c)
		}
	}
	sortByLogonName(cracked)
	sortByLogonName(uncracked)

	out.WriteString(sectionHeader(titleStyle.Render("High-Value Targets")))
	if len(cracked) == 0 && len(uncracked) == 0 {
		out.WriteString("(No target files provided or no targets matched)\n")
		return
	}
	fmt.Fprintf(out, "Cracked %d/%d\n", len(cracked), len(cracked)+len(uncracked))
	for _, c := range cracked {
		fmt.Fprintf(out, "  %s: %s\n", c.DownLevelLogonName, c.Cleartext)
	}
	for _, c := range uncracked {
		fmt.Fprintf(out, "  %s: %s\n", c.DownLevelLogonName, dimStyle.Render("(Not cracked)"))
	}
}

type hashGroup struct {
	hash  string
	creds []*credential.Credential
}

// sharedHashGroups groups credentials by non-null effective hash, keeping
// only hashes shared by at least two accounts, sorted by hash for stable
// output.
func sharedHashGroups(creds []credential.Credential) []hashGroup {
	byHash := make(map[string][]*credential.Credential)
	for i := range creds {
		c := &creds[i]
		if c.IsHashNull || c.HashText == "" {
			continue
		}
		byHash[c.HashText] = append(byHash[c.HashText], c)
	}
	var groups []hashGroup
	for hash, members := range byHash {
		if len(members) > 1 {
			sortByLogonName(members)
			groups = append(groups, hashGroup{hash: hash, creds: members})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].hash < groups[j].hash })
	return groups
}

func writeSharedHashes(out *strings.Builder, groups []hashGroup, targetsOnly bool) {
	title := "Shared Password Hashes"
	empty := "(No shared hashes)"
	if targetsOnly {
		title = "Shared Password Hashes (with at least 1 high-value target)"
		empty = "(No shared hashes with targets)"
	}
	out.WriteString(sectionHeader(titleStyle.Render(title)))

	any := false
	for _, group := range groups {
		if targetsOnly && !hasTarget(group.creds) {
			continue
		}
		any = true
		cleartext := ""
		for _, c := range group.creds {
			if c.IsCracked {
				cleartext = c.Cleartext
				break
			}
		}
		if cleartext != "" {
			fmt.Fprintf(out, "%s - %s (%d Accounts)\n", group.hash, crackedStyle.Render(cleartext), len(group.creds))
		} else {
			fmt.Fprintf(out, "%s - %s (%d Accounts)\n", group.hash, dimStyle.Render("(Not Cracked)"), len(group.creds))
		}
		for _, c := range group.creds {
			if c.IsTarget {
				fmt.Fprintf(out, "  %s: %s\n", c.DownLevelLogonName, crackedStyle.Render("(Target)"))
			} else {
				fmt.Fprintf(out, "  %s: %s\n", c.DownLevelLogonName, dimStyle.Render("(Not a target)"))
			}
		}
	}
	if !any {
		out.WriteString(empty)
		out.WriteString("\n")
	}
}

func hasTarget(creds []*credential.Credential) bool {
	for _, c := range creds {
		if c.IsTarget {
			return true
		}
	}
	return false
}

func writeDomainBreakdown(out *strings.Builder, e *engine.Engine) {
	out.WriteString(sectionHeader(titleStyle.Render("Domain Breakdown")))
	byDomain := stats.DomainBreakdown(e.Credentials)
	if len(byDomain) == 0 {
		out.WriteString("(No domains)\n")
		return
	}
	domains := make([]string, 0, len(byDomain))
	for domain := range byDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	for _, domain := range domains {
		out.WriteString(domainStyle.Render(domain))
		out.WriteString("\n")
		writeBasicStats(out, byDomain[domain])
	}
}

func writeTopPasswords(out *strings.Builder, e *engine.Engine, topN int) {
	out.WriteString(sectionHeader(sectionStyle.Render("Top Reused Passwords")))
	top := stats.TopReusedPasswords(e.Credentials, topN)
	if len(top) == 0 {
		out.WriteString("(No cracked passwords)\n")
		return
	}
	for _, item := range top {
		fmt.Fprintf(out, "  %s: %d\n", item.Password, item.Count)
	}
}

func sortByLogonName(creds []*credential.Credential) {
	sort.Slice(creds, func(i, j int) bool {
		return creds[i].DownLevelLogonName < creds[j].DownLevelLogonName
	})
}
