package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rafaelbarros/docflow/internal/core/domain"
	"github.com/rafaelbarros/docflow/internal/core/ports"
	"github.com/rafaelbarros/docflow/internal/observability/metrics"
)

const backpressureWait = 100 * time.Millisecond

// Options tunes the middleware chain in front of the mux.
type Options struct {
	ServiceName    string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
	MaxUploadBytes int64
	Metrics        *metrics.HTTPServerMetrics
}

type Router struct {
	intake   ports.DocumentIntake
	reviewer ports.DocumentReviewer
	reader   ports.WorkflowReader
	roster   ports.RosterService

	options Options
}

func NewRouter(
	intake ports.DocumentIntake,
	reviewer ports.DocumentReviewer,
	reader ports.WorkflowReader,
	roster ports.RosterService,
	options Options,
) *Router {
	if options.ServiceName == "" {
		options.ServiceName = "docflow-api"
	}
	return &Router{
		intake:   intake,
		reviewer: reviewer,
		reader:   reader,
		roster:   roster,
		options:  options,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.json", rt.openapiDocument)

	mux.HandleFunc("POST /v1/clients/{clientID}/members", rt.addMember)
	mux.HandleFunc("GET /v1/clients/{clientID}/members", rt.listMembers)

	mux.HandleFunc("POST /v1/clients/{clientID}/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/clients/{clientID}/documents", rt.listDocuments)
	mux.HandleFunc("GET /v1/clients/{clientID}/required-types", rt.requiredTypes)
	mux.HandleFunc("GET /v1/clients/{clientID}/summary", rt.processSummary)
	mux.HandleFunc("GET /v1/clients/{clientID}/members/{memberID}/summary", rt.memberSummary)
	mux.HandleFunc("GET /v1/clients/{clientID}/report.xlsx", rt.processReport)

	mux.HandleFunc("DELETE /v1/documents/{documentID}", rt.deleteDocument)
	mux.HandleFunc("POST /v1/documents/{documentID}/review", rt.reviewDocument)
	mux.HandleFunc("POST /v1/documents/{documentID}/apostille", rt.uploadApostille)
	mux.HandleFunc("POST /v1/documents/{documentID}/translation", rt.uploadTranslation)
	mux.HandleFunc("POST /v1/documents/{documentID}/request", rt.requestStep)

	var handler http.Handler = mux
	handler = accessLogMiddleware(handler)
	if rt.options.Metrics != nil {
		handler = rt.options.Metrics.Middleware(rt.options.ServiceName, handler)
	}
	handler = backpressureMiddleware(handler, rt.options.MaxInFlight, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.options.RateLimitRPS, rt.options.RateLimitBurst)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) addMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Relationship string `json:"relationship"`
		IsTitular    bool   `json:"is_titular"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	member := domain.FamilyMember{
		ClientID:     r.PathValue("clientID"),
		Name:         strings.TrimSpace(req.Name),
		Relationship: strings.TrimSpace(req.Relationship),
		IsTitular:    req.IsTitular,
	}
	if err := rt.roster.AddMember(r.Context(), &member); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (rt *Router) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := rt.roster.ListMembers(r.Context(), r.PathValue("clientID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if rt.options.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.options.MaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.intake.Upload(
		r.Context(),
		r.PathValue("clientID"),
		r.FormValue("member_id"),
		r.FormValue("document_type"),
		fileHeader.Filename,
		fileHeader.Size,
		file,
	)
	if err != nil {
		rt.recordRejectedUpload(err)
		writeError(w, err)
		return
	}

	if rt.options.Metrics != nil {
		rt.options.Metrics.RecordUpload(rt.options.ServiceName, "initial")
	}
	writeJSON(w, http.StatusAccepted, domain.NewDocumentView(*doc))
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	views, err := rt.reader.ListClientDocuments(r.Context(), r.PathValue("clientID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": views})
}

func (rt *Router) requiredTypes(w http.ResponseWriter, r *http.Request) {
	types, err := rt.reader.RequiredTypes(r.Context(), r.PathValue("clientID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"required_types": types})
}

func (rt *Router) processSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.reader.ProcessSummary(r.Context(), r.PathValue("clientID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) memberSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.reader.MemberSummary(r.Context(), r.PathValue("clientID"), r.PathValue("memberID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) processReport(w http.ResponseWriter, r *http.Request) {
	report, err := rt.reader.ProcessReport(r.Context(), r.PathValue("clientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.options.Metrics != nil {
		rt.options.Metrics.RecordReportExport(rt.options.ServiceName)
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="process_report.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := rt.intake.Delete(r.Context(), r.PathValue("documentID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) reviewDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	documentID := r.PathValue("documentID")
	var (
		doc *domain.DocumentRecord
		err error
	)
	switch req.Decision {
	case "approve":
		doc, err = rt.reviewer.Approve(r.Context(), documentID)
	case "reject":
		doc, err = rt.reviewer.Reject(r.Context(), documentID, req.Reason)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "decision must be approve or reject"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.options.Metrics != nil {
		rt.options.Metrics.RecordReviewDecision(rt.options.ServiceName, req.Decision)
	}
	writeJSON(w, http.StatusOK, domain.NewDocumentView(*doc))
}

func (rt *Router) uploadApostille(w http.ResponseWriter, r *http.Request) {
	rt.uploadStep(w, r, "apostille", rt.intake.UploadApostille)
}

func (rt *Router) uploadTranslation(w http.ResponseWriter, r *http.Request) {
	rt.uploadStep(w, r, "translation", rt.intake.UploadTranslation)
}

type stepUploadFunc func(ctx context.Context, documentID, filename string, size int64, body io.Reader) (*domain.DocumentRecord, error)

func (rt *Router) uploadStep(w http.ResponseWriter, r *http.Request, kind string, upload stepUploadFunc) {
	if rt.options.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.options.MaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := upload(r.Context(), r.PathValue("documentID"), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		rt.recordRejectedUpload(err)
		writeError(w, err)
		return
	}

	if rt.options.Metrics != nil {
		rt.options.Metrics.RecordUpload(rt.options.ServiceName, kind)
	}
	writeJSON(w, http.StatusAccepted, domain.NewDocumentView(*doc))
}

func (rt *Router) requestStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Step string `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	step := domain.WorkflowStep(req.Step)
	switch step {
	case domain.StepApostille, domain.StepApostilleSent, domain.StepTranslation:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown workflow step"})
		return
	}

	doc, err := rt.reviewer.RequestStep(r.Context(), r.PathValue("documentID"), step)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewDocumentView(*doc))
}

func (rt *Router) recordRejectedUpload(err error) {
	if rt.options.Metrics == nil {
		return
	}
	reason := "internal"
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		reason = "invalid_input"
	case domain.IsKind(err, domain.ErrConflict):
		reason = "slot_conflict"
	case domain.IsKind(err, domain.ErrMemberNotFound), domain.IsKind(err, domain.ErrDocumentNotFound):
		reason = "not_found"
	case domain.IsKind(err, domain.ErrTemporary):
		reason = "temporary"
	}
	rt.options.Metrics.RecordRejectedUpload(rt.options.ServiceName, reason)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
