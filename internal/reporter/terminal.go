package reporter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"kevscan/internal/models"
)

// TerminalReporter outputs findings in a human-readable terminal format
type TerminalReporter struct{}

var (
	headline = color.New(color.FgRed, color.Bold).SprintFunc()
	pkgStyle = color.New(color.FgCyan, color.Bold).SprintFunc()
	cveStyle = color.New(color.FgRed).SprintFunc()
	dimStyle = color.New(color.Faint).SprintFunc()
	warn     = color.New(color.FgYellow).SprintFunc()
)

// Report generates terminal output for the given findings
func (r *TerminalReporter) Report(findings []models.Finding) ([]byte, error) {
	if len(findings) == 0 {
		return []byte("No KEV vulnerabilities found in dependencies.\n"), nil
	}

	var sb strings.Builder

	totalKEVs := 0
	ransomwareCount := 0
	for _, f := range findings {
		totalKEVs += len(f.KEVs)
		for _, kev := range f.KEVs {
			if kev.RansomwareUse {
				ransomwareCount++
			}
		}
	}

	sb.WriteString("\n" + headline("KEV VULNERABILITIES FOUND") + "\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")
	sb.WriteString(fmt.Sprintf("Found %d KEV vulnerabilities in %d dependencies\n", totalKEVs, len(findings)))
	if ransomwareCount > 0 {
		sb.WriteString(warn(fmt.Sprintf("%d vulnerabilities known to be used in ransomware campaigns\n", ransomwareCount)))
	}
	sb.WriteString("\n")

	for _, f := range findings {
		r.writeFinding(&sb, f)
		sb.WriteString("\n" + strings.Repeat("-", 60) + "\n")
	}

	sb.WriteString("\nFor more information, visit: https://www.cisa.gov/known-exploited-vulnerabilities-catalog\n")

	return []byte(sb.String()), nil
}

func (r *TerminalReporter) writeFinding(sb *strings.Builder, f models.Finding) {
	sb.WriteString(pkgStyle(f.Dependency.String()))
	if f.Dependency.IsTransitive() {
		sb.WriteString(dimStyle(" (transitive)"))
	}
	sb.WriteString("\n")

	sb.WriteString("   Source: " + f.Dependency.SourceFile)
	if f.Dependency.Line > 0 {
		sb.WriteString(fmt.Sprintf(":%d", f.Dependency.Line))
	}
	sb.WriteString("\n")

	for _, kev := range f.KEVs {
		sb.WriteString("\n   " + cveStyle(kev.CVEID) + "\n")
		sb.WriteString(fmt.Sprintf("      %s - %s\n", kev.VendorProject, kev.Product))
		sb.WriteString(fmt.Sprintf("      %s\n", kev.VulnerabilityName))

		if kev.ShortDescription != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", truncate(kev.ShortDescription, 200)))
		}

		sb.WriteString(fmt.Sprintf("      Added: %s | Due: %s\n",
			kev.DateAdded.Format("2006-01-02"),
			kev.DueDate.Format("2006-01-02")))

		if kev.EPSSScore > 0 {
			sb.WriteString(fmt.Sprintf("      EPSS: %.1f%% (percentile: %.1f%%)\n",
				kev.EPSSScore*100, kev.EPSSPercentile*100))
		}

		if kev.RansomwareUse {
			sb.WriteString("      " + warn("Known ransomware usage") + "\n")
		}

		if kev.RequiredAction != "" {
			sb.WriteString(fmt.Sprintf("      Required Action: %s\n", truncate(kev.RequiredAction, 100)))
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
