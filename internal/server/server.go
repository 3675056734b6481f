package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"docqa/internal/domain"
	"docqa/internal/ingest"
	"docqa/internal/service"
)

// maxUploadBytes bounds the size of an uploaded document.
const maxUploadBytes = 32 << 20

// Server is the HTTP transport over the document QA service.
type Server struct {
	svc *service.Service
	log *slog.Logger
	mux *http.ServeMux
}

// New creates the server and registers its routes.
func New(svc *service.Service, log *slog.Logger) *Server {
	s := &Server{svc: svc, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/v1/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/v1/query", s.handleQuery)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Chunks   int    `json:"chunks"`
	Summary  string `json:"summary,omitempty"`
}

type queryRequest struct {
	Query    string `json:"query"`
	TopK     int    `json:"top_k"`
	Provider string `json:"model_provider"`
}

type sourceDocument struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

type queryResponse struct {
	Answer  string           `json:"answer"`
	Sources []sourceDocument `json:"sources"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "no filename provided")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
		return
	}

	kind := ingest.DetectKind(header.Filename)
	res, err := s.svc.Ingest(r.Context(), data, header.Filename, kind)
	if err != nil {
		s.log.Error("ingestion failed", "file", header.Filename, "kind", kind, "error", err)
		s.writeServiceError(w, err)
		return
	}

	s.log.Info("document indexed", "file", header.Filename, "kind", kind, "chunks", res.ChunksIndexed)
	s.writeJSON(w, http.StatusOK, uploadResponse{
		Filename: header.Filename,
		Status:   "processed and indexed successfully",
		Chunks:   res.ChunksIndexed,
		Summary:  res.Summary,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TopK <= 0 {
		req.TopK = 3
	}

	answer, err := s.svc.Query(r.Context(), req.Query, req.TopK, domain.Provider(req.Provider))
	if err != nil {
		s.log.Error("query failed", "error", err)
		s.writeServiceError(w, err)
		return
	}

	sources := make([]sourceDocument, len(answer.Sources))
	for i, c := range answer.Sources {
		sources[i] = sourceDocument{Text: c.Text, Metadata: c.Metadata}
	}
	s.writeJSON(w, http.StatusOK, queryResponse{Answer: answer.Text, Sources: sources})
}

// writeServiceError maps the failure taxonomy onto status codes: caller
// faults are 400, embedding oracle faults 502, everything else 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrParse):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmbedding):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("writing response", "error", err)
	}
}
