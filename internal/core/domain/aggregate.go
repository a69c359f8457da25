package domain

// MemberStats are the per-member dashboard counters derived from a member's
// documents and the required-type catalog.
type MemberStats struct {
	Rejected int `json:"rejected"`
	// Analyzing counts the status-exact analysis states (analyzing,
	// analyzing_apostille, analyzing_translation). It is not the same number
	// as "documents in the analyzing stage".
	Analyzing int `json:"analyzing"`
	Completed int `json:"completed"`
	// WaitingAction counts documents whose next move belongs to the client,
	// plus required types never uploaded at all.
	WaitingAction    int  `json:"waiting_action"`
	MissingCount     int  `json:"missing_count"`
	HasSentDocuments bool `json:"has_sent_documents"`
	HasRejected      bool `json:"has_rejected"`
}

// ProcessStats is the roster-wide rollup across all family members.
type ProcessStats struct {
	WaitingAction int `json:"waiting_action"`
	Analyzing     int `json:"analyzing"`
	Completed     int `json:"completed"`
	// Total is the nominal number of document slots in the process
	// (members × required types), used only for a coarse completion ratio.
	Total int `json:"total"`
}

// AggregateMember folds one member's documents and the required catalog into
// the member's counters. Documents of types outside the catalog still count
// toward the per-status totals but never toward MissingCount. Catalog entries
// marked optional do not count as missing when absent.
func AggregateMember(memberDocs []DocumentRecord, required []RequiredDocumentType) MemberStats {
	var stats MemberStats

	uploadedTypes := make(map[string]struct{}, len(memberDocs))
	for _, doc := range memberDocs {
		uploadedTypes[doc.Type] = struct{}{}

		if doc.Status == StatusRejected {
			stats.Rejected++
		}
		if _, ok := analysisStatuses[doc.Status]; ok {
			stats.Analyzing++
		}
		if doc.Status == StatusApproved && doc.IsApostilled && doc.IsTranslated {
			stats.Completed++
		}
		if _, ok := waitingStatuses[doc.Status]; ok {
			stats.WaitingAction++
		}
	}

	for _, req := range required {
		if !req.Required {
			continue
		}
		if _, ok := uploadedTypes[req.Type]; !ok {
			stats.MissingCount++
			// A slot that was never filled also waits on the client.
			stats.WaitingAction++
		}
	}

	stats.HasSentDocuments = len(memberDocs) > 0
	stats.HasRejected = stats.Rejected > 0
	return stats
}

// AggregateProcess folds per-member aggregates into the process summary.
// Documents are partitioned by MemberID; records owned by members outside the
// roster are ignored.
func AggregateProcess(members []FamilyMember, allDocs []DocumentRecord, required []RequiredDocumentType) ProcessStats {
	byMember := make(map[string][]DocumentRecord, len(members))
	for _, doc := range allDocs {
		byMember[doc.MemberID] = append(byMember[doc.MemberID], doc)
	}

	var stats ProcessStats
	for _, member := range members {
		memberStats := AggregateMember(byMember[member.ID], required)
		stats.WaitingAction += memberStats.WaitingAction
		stats.Analyzing += memberStats.Analyzing
		stats.Completed += memberStats.Completed
	}
	stats.Total = len(members) * len(required)
	return stats
}
