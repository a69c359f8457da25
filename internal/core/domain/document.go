package domain

import "time"

// DocumentStatus is the closed vocabulary the review workflow moves a document
// through. Classification works on explicit status sets rather than substring
// matching so a new or misspelled status can never silently match a branch.
type DocumentStatus string

const (
	StatusPending              DocumentStatus = "pending"
	StatusAnalyzing            DocumentStatus = "analyzing"
	StatusApproved             DocumentStatus = "approved"
	StatusRejected             DocumentStatus = "rejected"
	StatusWaitingApostille     DocumentStatus = "waiting_apostille"
	StatusSentForApostille     DocumentStatus = "sent_for_apostille"
	StatusAnalyzingApostille   DocumentStatus = "analyzing_apostille"
	StatusWaitingTranslation   DocumentStatus = "waiting_translation"
	StatusAnalyzingTranslation DocumentStatus = "analyzing_translation"
)

// AllStatuses lists every status the service recognizes, in workflow order.
func AllStatuses() []DocumentStatus {
	return []DocumentStatus{
		StatusPending,
		StatusAnalyzing,
		StatusApproved,
		StatusRejected,
		StatusWaitingApostille,
		StatusSentForApostille,
		StatusAnalyzingApostille,
		StatusWaitingTranslation,
		StatusAnalyzingTranslation,
	}
}

var apostilleStatuses = map[DocumentStatus]struct{}{
	StatusWaitingApostille:   {},
	StatusSentForApostille:   {},
	StatusAnalyzingApostille: {},
}

var translationStatuses = map[DocumentStatus]struct{}{
	StatusWaitingTranslation:   {},
	StatusAnalyzingTranslation: {},
}

// analysisStatuses are the status-exact "under analysis" states counted by the
// member aggregator. The set is narrower than the analyzing pipeline stage;
// the two feed different dashboard numbers and stay separate.
var analysisStatuses = map[DocumentStatus]struct{}{
	StatusAnalyzing:            {},
	StatusAnalyzingApostille:   {},
	StatusAnalyzingTranslation: {},
}

// waitingStatuses are the states where the next move belongs to the client.
var waitingStatuses = map[DocumentStatus]struct{}{
	StatusRejected:           {},
	StatusWaitingApostille:   {},
	StatusWaitingTranslation: {},
}

// DocumentRecord is one uploaded document owned by a single family member.
// A member holds at most one current record per document type; resubmission
// replaces the prior record for that slot.
type DocumentRecord struct {
	ID              string         `json:"id"`
	MemberID        string         `json:"member_id"`
	Type            string         `json:"type"`
	Status          DocumentStatus `json:"status"`
	IsApostilled    bool           `json:"is_apostilled"`
	IsTranslated    bool           `json:"is_translated"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	FileName        string         `json:"file_name"`
	FileSize        int64          `json:"file_size"`
	StoragePath     string         `json:"-"`
	PageCount       int            `json:"page_count,omitempty"`
	UploadDate      time.Time      `json:"upload_date"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// RequiredDocumentType is a catalog entry describing a document category the
// process expects from each family member, whether or not it was uploaded.
type RequiredDocumentType struct {
	Type        string `json:"type" yaml:"type"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
	// ProcessType scopes a catalog entry to a process kind. Members never get
	// per-member overrides.
	ProcessType string `json:"process_type,omitempty" yaml:"process_type"`
}

// FamilyMember is one applicant in a client's family group. Exactly one
// member per client is the titular (primary applicant).
type FamilyMember struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	IsTitular    bool      `json:"is_titular"`
	CreatedAt    time.Time `json:"created_at"`
}
