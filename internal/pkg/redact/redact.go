// redact — маскирование чувствительных значений перед логированием.
package redact

import "strings"

// Email оставляет первые два символа локальной части и домен.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Credential — bearer-токены целиком в логи не попадают.
func Credential() string { return "[REDACTED_CREDENTIAL]" }

func Password() string { return "[REDACTED_PASSWORD]" }
