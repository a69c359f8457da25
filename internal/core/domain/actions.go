package domain

// WorkflowStep names a post-approval step staff can hand back to the client.
type WorkflowStep string

const (
	StepApostille     WorkflowStep = "apostille"
	StepApostilleSent WorkflowStep = "apostille_sent"
	StepTranslation   WorkflowStep = "translation"
)

// UploadAction is a client-side affordance the workflow permits for a
// document slot in its current state.
type UploadAction string

const (
	ActionInitialUpload     UploadAction = "initial_upload"
	ActionCorrectAndResend  UploadAction = "correct_and_resend"
	ActionUploadApostille   UploadAction = "upload_apostille"
	ActionUploadTranslation UploadAction = "upload_translation"
	ActionDelete            UploadAction = "delete"
)

// ActionSet is the set of permitted actions for one slot.
type ActionSet map[UploadAction]struct{}

func (s ActionSet) Contains(action UploadAction) bool {
	_, ok := s[action]
	return ok
}

// List returns the actions in a stable order for serialization.
func (s ActionSet) List() []UploadAction {
	order := []UploadAction{
		ActionInitialUpload,
		ActionCorrectAndResend,
		ActionUploadApostille,
		ActionUploadTranslation,
		ActionDelete,
	}
	out := make([]UploadAction, 0, len(s))
	for _, action := range order {
		if s.Contains(action) {
			out = append(out, action)
		}
	}
	return out
}

func actionSet(actions ...UploadAction) ActionSet {
	set := make(ActionSet, len(actions))
	for _, action := range actions {
		set[action] = struct{}{}
	}
	return set
}

// AvailableActions resolves the permitted actions for a document slot. A nil
// record means the required type was never uploaded for the member. Total:
// every status yields a result, and a status outside the known vocabulary
// resolves to the locked (empty) set, matching the classifier's conservative
// "still in progress" default.
func AvailableActions(doc *DocumentRecord) ActionSet {
	if doc == nil {
		return actionSet(ActionInitialUpload)
	}

	switch doc.Status {
	case StatusRejected:
		return actionSet(ActionCorrectAndResend, ActionDelete)
	case StatusApproved:
		switch {
		case !doc.IsApostilled:
			return actionSet(ActionUploadApostille)
		case !doc.IsTranslated:
			return actionSet(ActionUploadTranslation)
		default:
			// Fully completed slot is read-only.
			return actionSet()
		}
	case StatusAnalyzing, StatusSentForApostille, StatusAnalyzingApostille, StatusAnalyzingTranslation:
		// Locked while under review or in transit.
		return actionSet()
	case StatusPending, StatusWaitingApostille, StatusWaitingTranslation:
		// The generic re-upload affordance doubles as the plain upload one.
		return actionSet(ActionCorrectAndResend)
	default:
		return actionSet()
	}
}
