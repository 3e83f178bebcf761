package documents

import (
	"context"
	"log/slog"

	"github.com/docuvault/docuvault/internal/access"
	"github.com/docuvault/docuvault/internal/shared"
)

// RepositoryPort defines data access methods for documents.
type RepositoryPort interface {
	GetDocument(ctx context.Context, id int64) (Document, error)
	CreateDocument(ctx context.Context, doc Document) (Document, error)
	DeleteDocument(ctx context.Context, id int64) error
	UserInAnyGroup(ctx context.Context, userID int64, groupIDs []int64) (bool, error)
}

// AccessChecker is the slice of the access engine this domain consults.
type AccessChecker interface {
	ResolveCapabilities(ctx context.Context, userID int64) (access.CapabilitySet, error)
	HasCapability(ctx context.Context, userID int64, name string) bool
}

// Service owns the document-domain visibility and action checks. The
// DOCUMENT_FULL_ACCESS bypass is consulted before the ownership predicates
// and nowhere else: it never stands in for an action capability such as
// PDF_DOWNLOAD, and it never unlocks a workflow status freeze.
type Service struct {
	repo   RepositoryPort
	engine AccessChecker
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, engine AccessChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, engine: engine, logger: logger}
}

// GetDocument fetches a document by ID.
func (s *Service) GetDocument(ctx context.Context, id int64) (Document, error) {
	return s.repo.GetDocument(ctx, id)
}

// CreateDocument stores a new document owned by the caller.
func (s *Service) CreateDocument(ctx context.Context, doc Document) (Document, error) {
	if doc.Status == "" {
		doc.Status = StatusDraft
	}
	return s.repo.CreateDocument(ctx, doc)
}

// DeleteDocument removes a document record.
func (s *Service) DeleteDocument(ctx context.Context, id int64) error {
	return s.repo.DeleteDocument(ctx, id)
}

// CanView decides document visibility for a user. Resolution failures deny.
func (s *Service) CanView(ctx context.Context, userID int64, doc Document) bool {
	set, err := s.engine.ResolveCapabilities(ctx, userID)
	if err != nil {
		s.logger.Warn("document visibility denied on error", slog.Any("error", err))
		return false
	}
	if access.BypassesDocumentOwnership(set) {
		return true
	}
	if doc.OwnerID == userID {
		return true
	}
	if doc.IsPublic {
		return true
	}
	member, err := s.repo.UserInAnyGroup(ctx, userID, doc.AccessGroupIDs)
	if err != nil {
		s.logger.Warn("group membership lookup failed", slog.Any("error", err))
		return false
	}
	return member
}

// CanEdit decides whether the user may mutate the document. The ownership
// predicate honors the bypass; the workflow status lock does not.
func (s *Service) CanEdit(ctx context.Context, userID int64, doc Document) bool {
	if doc.editLocked() {
		return false
	}
	set, err := s.engine.ResolveCapabilities(ctx, userID)
	if err != nil {
		s.logger.Warn("document edit denied on error", slog.Any("error", err))
		return false
	}
	if access.BypassesDocumentOwnership(set) {
		return true
	}
	return doc.OwnerID == userID && set.Has(shared.CapDocumentEdit)
}

// CanDelete decides whether the user may delete the document.
func (s *Service) CanDelete(ctx context.Context, userID int64, doc Document) bool {
	if doc.Status == StatusArchived {
		return false
	}
	set, err := s.engine.ResolveCapabilities(ctx, userID)
	if err != nil {
		s.logger.Warn("document delete denied on error", slog.Any("error", err))
		return false
	}
	if access.BypassesDocumentOwnership(set) {
		return true
	}
	return doc.OwnerID == userID && set.Has(shared.CapDocumentDelete)
}

// CanDownloadPDF gates the download action. Visibility may come from the
// bypass, but the PDF_DOWNLOAD capability is required on its own.
func (s *Service) CanDownloadPDF(ctx context.Context, userID int64, doc Document) bool {
	if !s.CanView(ctx, userID, doc) {
		return false
	}
	return s.engine.HasCapability(ctx, userID, shared.CapPDFDownload)
}

// CanUpload gates the upload action.
func (s *Service) CanUpload(ctx context.Context, userID int64) bool {
	return s.engine.HasCapability(ctx, userID, shared.CapDocumentUpload)
}
