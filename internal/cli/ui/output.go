package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aki/hookrunner/internal/core/hooks"
)

// Print functions for consistent output

func Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorIcon, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

func Success(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", SuccessIcon, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

func Info(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", InfoIcon, InfoStyle.Render(fmt.Sprintf(format, args...)))
}

func Warning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", WarningIcon, WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// OutputLine prints a plain formatted line to stdout
func OutputLine(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Confirm asks a yes/no question on the terminal and returns whether
// the user answered yes. Anything but y/yes declines.
func Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// ClassificationIcon returns the icon for a check classification
func ClassificationIcon(c hooks.Classification) string {
	switch c {
	case hooks.ClassPass:
		return PassIcon
	case hooks.ClassBlock:
		return BlockIcon
	default:
		return WarnIcon
	}
}

// ClassificationStyle returns the style for a check classification
func ClassificationStyle(c hooks.Classification) func(...string) string {
	switch c {
	case hooks.ClassPass:
		return SuccessStyle.Render
	case hooks.ClassBlock:
		return BlockStyle.Render
	default:
		return WarningStyle.Render
	}
}

// PrintCheckResult displays one check result. Pass results get a
// single line; findings also show the captured stderr, indented, since
// that text is the hook's reason.
func PrintCheckResult(res hooks.CheckResult) {
	style := ClassificationStyle(res.Classification)

	line := fmt.Sprintf("%s %s", ClassificationIcon(res.Classification), res.HookName)
	detail := fmt.Sprintf("(%s, %s)", res.Classification, FormatMillis(res.DurationMs))
	if res.TimedOut() {
		detail = fmt.Sprintf("(timed out after %s)", FormatMillis(res.DurationMs))
	}

	fmt.Printf("%s %s\n", style(line), DimStyle.Render(detail))

	if res.Classification == hooks.ClassPass {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(res.Stderr, "\n"), "\n") {
		if l == "" {
			continue
		}
		fmt.Printf("    %s\n", l)
	}
}

// PrintDecision displays the aggregate decision for one event: every
// non-pass result with its reason, then the overall verdict.
func PrintDecision(decision hooks.Decision) {
	for _, res := range decision.Results {
		if res.Classification != hooks.ClassPass {
			PrintCheckResult(res)
		}
	}

	passed, warned, blocked := decision.Counts()
	summary := fmt.Sprintf("%d passed, %d warned, %d blocked", passed, warned, blocked)

	switch decision.Overall {
	case hooks.Deny:
		fmt.Printf("%s %s %s\n", ErrorIcon, BlockStyle.Render("Denied"), DimStyle.Render("("+summary+")"))
	case hooks.AllowWithWarnings:
		fmt.Printf("%s %s %s\n", WarningIcon, WarningStyle.Render("Allowed with warnings"), DimStyle.Render("("+summary+")"))
	default:
		fmt.Printf("%s %s %s\n", SuccessIcon, SuccessStyle.Render("Allowed"), DimStyle.Render("("+summary+")"))
	}
}

// FormatMillis formats a millisecond duration for display
func FormatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// FormatTime formats a time for display
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// Truncate shortens a string for table display
func Truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
