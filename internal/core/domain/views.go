package domain

// DocumentView decorates a record with its derived stage and the actions the
// client may take on it right now.
type DocumentView struct {
	DocumentRecord
	Stage   Stage          `json:"stage"`
	Actions []UploadAction `json:"actions"`
}

// SlotView is one required-type slot for a member: either the current record
// for that type or an empty slot still waiting for its first upload.
type SlotView struct {
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	Required bool           `json:"required"`
	Missing  bool           `json:"missing"`
	Document *DocumentView  `json:"document,omitempty"`
	Actions  []UploadAction `json:"actions"`
}

// NewDocumentView classifies and resolves actions for a single record.
func NewDocumentView(doc DocumentRecord) DocumentView {
	return DocumentView{
		DocumentRecord: doc,
		Stage:          ClassifyStage(doc),
		Actions:        AvailableActions(&doc).List(),
	}
}

// BuildSlotViews lays a member's documents over the required catalog: one
// slot per catalog entry, then one slot per ad-hoc upload whose type is not
// in the catalog, in upload order.
func BuildSlotViews(memberDocs []DocumentRecord, required []RequiredDocumentType) []SlotView {
	byType := make(map[string]DocumentRecord, len(memberDocs))
	for _, doc := range memberDocs {
		byType[doc.Type] = doc
	}

	slots := make([]SlotView, 0, len(required)+len(memberDocs))
	catalogTypes := make(map[string]struct{}, len(required))
	for _, req := range required {
		catalogTypes[req.Type] = struct{}{}
		slot := SlotView{
			Type:     req.Type,
			Name:     req.Name,
			Required: req.Required,
		}
		if doc, ok := byType[req.Type]; ok {
			view := NewDocumentView(doc)
			slot.Document = &view
			slot.Actions = view.Actions
		} else {
			slot.Missing = true
			slot.Actions = AvailableActions(nil).List()
		}
		slots = append(slots, slot)
	}

	for _, doc := range memberDocs {
		if _, ok := catalogTypes[doc.Type]; ok {
			continue
		}
		view := NewDocumentView(doc)
		slots = append(slots, SlotView{
			Type:     doc.Type,
			Name:     doc.Type,
			Document: &view,
			Actions:  view.Actions,
		})
	}
	return slots
}
