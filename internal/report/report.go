package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/salchaD-27/hotpath-check/internal/finding"
)

// Formats lists the accepted values of Export's format argument.
var Formats = []string{"text", "json", "markdown", "gha"}

// Export renders findings in the named format.
func Export(format string, findings []finding.Finding) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return ExportText(findings)
	case "json":
		return ExportJSON(findings)
	case "markdown", "md":
		return ExportMarkdown(findings)
	case "gha":
		return ExportGitHubActions(findings)
	default:
		return "", fmt.Errorf("unknown format %q (want %s)", format, strings.Join(Formats, "|"))
	}
}

// ExportText returns one colored line per finding.
func ExportText(findings []finding.Finding) (string, error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	var b strings.Builder
	for _, f := range findings {
		tag := fmt.Sprintf("[%s]", f.Severity)
		if f.Severity == finding.Error {
			tag = red(tag)
		} else {
			tag = yellow(tag)
		}
		b.WriteString(fmt.Sprintf("%s %s: %s (%s)\n", tag, location(f), f, f.Check))
		if f.Instruction != "" {
			b.WriteString(fmt.Sprintf("    %s\n", faint(f.Instruction)))
		}
	}
	return b.String(), nil
}

// ExportMarkdown returns a Markdown formatted report string.
func ExportMarkdown(findings []finding.Finding) (string, error) {
	var b strings.Builder
	b.WriteString("# Hot Path Report\n\n")

	if len(findings) == 0 {
		b.WriteString("✅ No issues found.\n")
		return b.String(), nil
	}

	for _, f := range findings {
		b.WriteString(fmt.Sprintf("- **[%s]** `%s` %s: %s", f.Severity, location(f), f.Check, f))
		if f.Instruction != "" {
			b.WriteString(fmt.Sprintf(" (`%s`)", f.Instruction))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// ExportJSON returns the JSON formatted report string.
func ExportJSON(findings []finding.Finding) (string, error) {
	if findings == nil {
		findings = []finding.Finding{}
	}
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExportGitHubActions returns a GitHub Actions annotation formatted string.
func ExportGitHubActions(findings []finding.Finding) (string, error) {
	var b strings.Builder
	for _, f := range findings {
		level := ""
		switch f.Severity {
		case finding.Error:
			level = "error"
		case finding.Warning:
			level = "warning"
		default:
			level = "notice"
		}
		props := "file=" + escapeProperty(f.File)
		if f.Line > 0 {
			props += fmt.Sprintf(",line=%d", f.Line)
		}
		props += ",title=" + escapeProperty(f.Check)
		b.WriteString(fmt.Sprintf("::%s %s::%s\n", level, props, escapeGHA(f.String())))
	}
	return b.String(), nil
}

func location(f finding.Finding) string {
	switch {
	case f.File == "":
		return "<ir>"
	case f.Line > 0:
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	default:
		return f.File
	}
}

// escapeGHA escapes a workflow command message. Annotations look like:
// ::error file=dsp.ll,line=12,title=allocation::tick: contains allocation
func escapeGHA(msg string) string {
	replacements := []struct{ old, new string }{
		{"%", "%25"},
		{"\r", "%0D"},
		{"\n", "%0A"},
	}
	for _, r := range replacements {
		msg = strings.ReplaceAll(msg, r.old, r.new)
	}
	return msg
}

// escapeProperty additionally escapes the property separators.
func escapeProperty(s string) string {
	s = escapeGHA(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
