package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBypassScopes(t *testing.T) {
	admin := NewCapabilitySet(CapAdminAccess)
	fullAccess := NewCapabilitySet(CapDocumentFullAccess)
	regular := NewCapabilitySet("DOCUMENT_VIEW")
	empty := NewCapabilitySet()

	assert.True(t, BypassesResourceChecks(admin))
	assert.False(t, BypassesResourceChecks(fullAccess))
	assert.False(t, BypassesResourceChecks(regular))
	assert.False(t, BypassesResourceChecks(empty))

	assert.True(t, BypassesDocumentOwnership(admin))
	assert.True(t, BypassesDocumentOwnership(fullAccess))
	assert.False(t, BypassesDocumentOwnership(regular))
	assert.False(t, BypassesDocumentOwnership(empty))
}
