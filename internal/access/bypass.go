package access

// Bypass capabilities short-circuit ordinary access checks for a specific
// scope. The table below is the single place their semantics live; call sites
// consult it instead of hard-coding role or capability names.
const (
	// CapAdminAccess bypasses navigation pruning and route/API resource
	// checks entirely.
	CapAdminAccess = "ADMIN_ACCESS"
	// CapDocumentFullAccess bypasses document visibility and ownership
	// predicates only. It does not grant action capabilities such as
	// PDF_DOWNLOAD or DOCUMENT_UPLOAD; those stay independently gated.
	CapDocumentFullAccess = "DOCUMENT_FULL_ACCESS"
)

// bypassScope names the class of checks a bypass capability overrides.
type bypassScope int

const (
	scopeResourceChecks bypassScope = iota
	scopeDocumentOwnership
)

var bypassTable = map[string]bypassScope{
	CapAdminAccess:        scopeResourceChecks,
	CapDocumentFullAccess: scopeDocumentOwnership,
}

// BypassesResourceChecks reports whether the set holds a capability that
// overrides resource-tree, route and API checks.
func BypassesResourceChecks(set CapabilitySet) bool {
	return holdsScope(set, scopeResourceChecks)
}

// BypassesDocumentOwnership reports whether the set holds a capability that
// overrides document visibility and ownership predicates. Action capabilities
// are never implied.
func BypassesDocumentOwnership(set CapabilitySet) bool {
	return holdsScope(set, scopeDocumentOwnership)
}

func holdsScope(set CapabilitySet, scope bypassScope) bool {
	for name, s := range bypassTable {
		if s == scope && set.Has(name) {
			return true
		}
	}
	return false
}
