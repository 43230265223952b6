package http

import (
	"encoding/json"
	"net/http"
	"time"

	"finhealth/internal/core"
	"finhealth/internal/ingest"
	"finhealth/internal/log"
	"finhealth/internal/services"
)

const maxUploadBytes = 10 << 20

type uploadResponse struct {
	DatasetID   string               `json:"dataset_id,omitempty"`
	MonthlyData []core.MonthlyRecord `json:"monthly_data"`
	Warnings    []string             `json:"warnings"`
}

// handleUpload ingests a CSV/XLSX statement, normalizes it, and stores the
// resulting dataset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	rows, err := ingest.ParseFile(header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	table, warnings, err := core.Normalize(rows)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if warnings == nil {
		warnings = []string{}
	}

	resp := uploadResponse{MonthlyData: table.Months, Warnings: warnings}
	if s.storage != nil {
		id, err := s.storage.SaveDataset(r.Context(), header.Filename, r.FormValue("industry"), table)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to store dataset",
				log.FieldFilename, header.Filename, log.FieldError, err)
			writeDomainError(w, err)
			return
		}
		resp.DatasetID = id
		s.logger.InfoContext(r.Context(), "Dataset stored",
			log.FieldDatasetID, id,
			log.FieldFilename, header.Filename,
			log.FieldMonths, len(table.Months))
	}

	writeJSON(w, http.StatusOK, resp)
}

type analyzeRequest struct {
	MonthlyData   []core.RawRow      `json:"monthly_data"`
	DatasetID     string             `json:"dataset_id"`
	Industry      string             `json:"industry"`
	GSTOverride   *services.GSTInput `json:"gst_override"`
	BankAccountID string             `json:"bank_account_id"`
}

type analyzeResponse struct {
	AnalysisID string `json:"analysis_id,omitempty"`
	*core.Analysis
}

// handleAnalyze runs the full pipeline over inline rows or a stored dataset.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.MonthlyData) == 0 && req.DatasetID == "" {
		writeError(w, http.StatusBadRequest, "monthly_data or dataset_id is required")
		return
	}

	opts := services.AnalyzeOptions{
		Industry:      req.Industry,
		GSTOverride:   req.GSTOverride,
		BankAccountID: req.BankAccountID,
	}

	var (
		id       string
		analysis *core.Analysis
		err      error
	)
	if req.DatasetID != "" {
		id, analysis, err = s.analysis.AnalyzeDataset(r.Context(), req.DatasetID, opts)
	} else {
		id, analysis, err = s.analysis.Analyze(r.Context(), req.MonthlyData, "", opts)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{AnalysisID: id, Analysis: analysis})
}

type insightsRequest struct {
	AnalysisID string         `json:"analysis_id"`
	Analysis   *core.Analysis `json:"analysis"`
	Language   string         `json:"language"`
}

type insightsResponse struct {
	Language string `json:"language"`
	Insights string `json:"insights"`
}

// handleInsights narrates an analysis (stored or inline) in the requested
// language. Stored analyses are cached per language.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}

	analysis := req.Analysis
	cacheKey := ""
	if req.AnalysisID != "" {
		cacheKey = req.AnalysisID + ":" + req.Language
		if cached, ok := s.insightCache.Get(cacheKey); ok {
			writeJSON(w, http.StatusOK, insightsResponse{Language: req.Language, Insights: cached})
			return
		}
		stored, err := s.storage.GetAnalysis(r.Context(), req.AnalysisID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		analysis = stored
	}
	if analysis == nil {
		writeError(w, http.StatusBadRequest, "analysis or analysis_id is required")
		return
	}

	text := s.narrator.GenerateInsights(r.Context(), analysis)
	text = s.narrator.Translate(r.Context(), text, req.Language)

	if cacheKey != "" {
		s.insightCache.Set(cacheKey, text)
	}
	writeJSON(w, http.StatusOK, insightsResponse{Language: req.Language, Insights: text})
}

type reportRequest struct {
	AnalysisID string `json:"analysis_id"`
	Language   string `json:"language"`
}

type reportResponse struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status"`
	Language   string `json:"language"`
	Insights   string `json:"insights,omitempty"`
}

// handleReport enqueues an asynchronous narration job for a stored analysis.
// When the broker is unavailable the narration runs inline instead; the
// request never fails on a publish error.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.AnalysisID == "" {
		writeError(w, http.StatusBadRequest, "analysis_id is required")
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}

	analysis, err := s.storage.GetAnalysis(r.Context(), req.AnalysisID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if s.publisher != nil {
		err := s.publisher.PublishReportRequest(r.Context(), req.AnalysisID, req.Language)
		if err == nil {
			writeJSON(w, http.StatusAccepted, reportResponse{
				AnalysisID: req.AnalysisID,
				Status:     "queued",
				Language:   req.Language,
			})
			return
		}
		s.logger.WarnContext(r.Context(), "Report publish failed, narrating inline",
			log.FieldAnalysisID, req.AnalysisID, log.FieldError, err)
	}

	text := s.narrator.GenerateInsights(r.Context(), analysis)
	text = s.narrator.Translate(r.Context(), text, req.Language)
	if err := s.storage.SetAnalysisInsights(r.Context(), req.AnalysisID, text, req.Language); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		AnalysisID: req.AnalysisID,
		Status:     "completed",
		Language:   req.Language,
		Insights:   text,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	status := "ready"
	httpStatus := http.StatusOK

	if s.storage == nil {
		checks["storage"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}
	if s.narrator == nil {
		checks["narrator"] = "not_configured"
	} else {
		checks["narrator"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{"status": status, "checks": checks})
}
