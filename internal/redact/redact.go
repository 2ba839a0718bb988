// Package redact masks secrets and personal data in strings before they are
// logged or echoed back to clients: database and SMTP credentials, JWTs,
// passwords, email addresses, file paths, SQL and stack traces.
package redact

import (
	"regexp"
	"strings"
)

// Placeholders substituted for redacted values.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	StackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; later rules see the output of earlier ones.
var rules = []rule{
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|smtps?)://[^@\s/]+@`),
		"${1}://" + CredentialPlaceholder + "@",
	},
	{
		regexp.MustCompile(`eyJ[\w-]+\.eyJ[\w-]+\.[\w-]+`),
		JWTPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|jwt_secret|api[_-]?key)\s*[=:]\s*['"]?[^'"&\s,]+`),
		"${1}=" + Placeholder,
	},
	{
		regexp.MustCompile(`(?i)\bbearer\s+[\w\-.~+/]+=*`),
		"Bearer " + Placeholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		EmailPlaceholder,
	},
	{
		regexp.MustCompile(`(?:goroutine \d+ \[|panic:)[\s\S]*`),
		StackPlaceholder,
	},
	{
		regexp.MustCompile(`(/[\w.-]+){2,}`),
		PathPlaceholder,
	},
	{
		regexp.MustCompile(
			`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()='"]+)?`,
		),
		SQLPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Email masks the local part of an address while keeping the domain, so
// delivery problems can still be grouped by provider: "ada@example.com"
// becomes "a***@example.com".
func Email(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return Placeholder
	}
	local := []rune(addr[:at])
	if len(local) <= 1 {
		return "***" + addr[at:]
	}
	return string(local[0]) + "***" + addr[at:]
}
