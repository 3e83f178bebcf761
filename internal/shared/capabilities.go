package shared

// Capability name tokens for the document platform. Bypass capabilities
// (ADMIN_ACCESS, DOCUMENT_FULL_ACCESS) live with the bypass policy in the
// access package.
const (
	CapDocumentView   = "DOCUMENT_VIEW"
	CapDocumentUpload = "DOCUMENT_UPLOAD"
	CapDocumentEdit   = "DOCUMENT_EDIT"
	CapDocumentDelete = "DOCUMENT_DELETE"
	CapPDFDownload    = "PDF_DOWNLOAD"

	CapUserManage     = "USER_MANAGE"
	CapRoleManage     = "ROLE_MANAGE"
	CapResourceManage = "RESOURCE_MANAGE"
)

// CoreScopes lists the capabilities the platform itself ships with.
func CoreScopes() []string {
	return []string{
		CapDocumentView,
		CapDocumentUpload,
		CapDocumentEdit,
		CapDocumentDelete,
		CapPDFDownload,
		CapUserManage,
		CapRoleManage,
		CapResourceManage,
	}
}
