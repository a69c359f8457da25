package domain

// Stage is the derived pipeline bucket a document card is grouped under. It is
// recomputed from the record on every read and never stored.
type Stage string

const (
	StageRejected    Stage = "rejected"
	StageAnalyzing   Stage = "analyzing"
	StageApostille   Stage = "apostille"
	StageTranslation Stage = "translation"
	StageCompleted   Stage = "completed"
)

// ClassifyStage maps a document record to its pipeline stage. Rules run in
// priority order and the first match wins; with malformed records more than
// one condition can hold at once, so the ordering is part of the contract
// (rejected dominates everything, apostille dominates translation).
//
// A status outside the known vocabulary lands in the analyzing stage: the
// review backend owns the status vocabulary and a new status it invents is
// still "in progress" from the client's point of view.
func ClassifyStage(doc DocumentRecord) Stage {
	if doc.Status == StatusRejected {
		return StageRejected
	}

	if _, ok := apostilleStatuses[doc.Status]; ok {
		return StageApostille
	}
	if doc.Status == StatusApproved && !doc.IsApostilled {
		return StageApostille
	}

	if _, ok := translationStatuses[doc.Status]; ok {
		return StageTranslation
	}
	if doc.Status == StatusApproved && doc.IsApostilled && !doc.IsTranslated {
		return StageTranslation
	}

	if doc.Status == StatusApproved && doc.IsApostilled && doc.IsTranslated {
		return StageCompleted
	}

	return StageAnalyzing
}
