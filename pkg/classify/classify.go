// Package classify assigns vulnerability findings to categories using
// ordered keyword matching over the plugin name and description.
package classify

import "strings"

// Category names shared with the control catalog's category mappings.
const (
	DefaultCredentials  = "Default Credentials"
	MissingPatches      = "Missing Patches"
	WeakEncryption      = "Weak Encryption"
	WeakAuthentication  = "Weak Authentication"
	UnnecessaryServices = "Unnecessary Services"
	ConfigurationIssues = "Configuration Issues"
	AccessControl       = "Access Control"
	RemoteAccess        = "Remote Access"
	InputValidation     = "Input Validation"
)

// Fallback is returned when no keyword matches.
const Fallback = ConfigurationIssues

// Category pairs a category name with its trigger keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Categories is the authoritative classification table. Order is a
// contract: the first category with a keyword hit wins, so specific
// categories must precede general ones that share vocabulary
// ("default password" must reach Default Credentials before the bare
// "password" keyword of Weak Authentication can claim it).
var Categories = []Category{
	{DefaultCredentials, []string{"default password", "default credential", "default account"}},
	{MissingPatches, []string{"patch", "update", "security update", "kb"}},
	{WeakEncryption, []string{"ssl", "tls", "cipher", "encryption", "weak"}},
	{WeakAuthentication, []string{"password", "authentication", "credential"}},
	{UnnecessaryServices, []string{"service detection", "unnecessary", "unused"}},
	{ConfigurationIssues, []string{"configuration", "misconfiguration"}},
	{AccessControl, []string{"access control", "permission", "privilege"}},
	{RemoteAccess, []string{"remote", "rdp", "ssh"}},
	{InputValidation, []string{"injection", "input", "validation"}},
}

// Classify assigns a finding to a category from its plugin name and
// description. It is total: any input, including empty strings, yields a
// category.
func Classify(name, description string) string {
	haystack := strings.ToLower(name) + "\n" + strings.ToLower(description)
	for _, cat := range Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(haystack, kw) {
				return cat.Name
			}
		}
	}
	return Fallback
}
