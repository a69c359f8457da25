package domain

type slotKey struct {
	memberID string
	docType  string
}

// Reconcile merges the server's document list with optimistic, not yet
// confirmed records, keyed by (member, type). Server truth wins per slot;
// an optimistic record survives only while the server has no record for its
// slot, and duplicate optimistic records for one slot collapse to the last
// one written. Output order is stable: server records first in server order,
// then surviving optimistic records in input order.
func Reconcile(serverDocs, optimisticDocs []DocumentRecord) []DocumentRecord {
	confirmed := make(map[slotKey]struct{}, len(serverDocs))
	for _, doc := range serverDocs {
		confirmed[slotKey{doc.MemberID, doc.Type}] = struct{}{}
	}

	// Last write wins among optimistic records for the same slot.
	lastPerSlot := make(map[slotKey]int, len(optimisticDocs))
	for i, doc := range optimisticDocs {
		lastPerSlot[slotKey{doc.MemberID, doc.Type}] = i
	}

	out := make([]DocumentRecord, 0, len(serverDocs)+len(optimisticDocs))
	out = append(out, serverDocs...)
	for i, doc := range optimisticDocs {
		key := slotKey{doc.MemberID, doc.Type}
		if _, ok := confirmed[key]; ok {
			continue
		}
		if lastPerSlot[key] != i {
			continue
		}
		out = append(out, doc)
	}
	return out
}
