package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"cataloguechat/internal/api"
	"cataloguechat/internal/config"
	"cataloguechat/internal/domain/commonModels"
	"cataloguechat/internal/rag"
	"cataloguechat/pkg/logging"
)

// RagHandler serves the retrieval endpoints. A service that failed to
// initialize is kept as nil with the error alongside: the process stays up
// and every request answers 503 until a restart fixes the wiring.
type RagHandler struct {
	svc     rag.Service
	initErr error
	logger  *logging.Logger
}

func NewRagHandler(svc rag.Service, initErr error) *RagHandler {
	return &RagHandler{
		svc:     svc,
		initErr: initErr,
		logger:  logging.NewLogger("RAG Handler"),
	}
}

// ChatHandler godoc
// @Summary      Ask the catalogue a question
// @Description  Embeds the query, retrieves the nearest chunks and returns a grounded answer with its sources.
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest   true  "Question and optional result count"
// @Success      200      {object}  api.ChatResponse  "Answer with supporting chunks"
// @Failure      400      {object}  api.ErrorResponse "Invalid query or k"
// @Failure      503      {object}  api.ErrorResponse "Pipeline failed to initialize"
// @Router       /rag [post]
func (h *RagHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	log := h.logger
	if trace, ok := r.Context().Value(config.TRACE_ID_KEY).(string); ok {
		log = log.With("traceId", trace)
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Error("Couldn't close the chat handler reader", "error", err)
		}
	}(r.Body)

	if h.svc == nil {
		log.Error("RAG pipeline unavailable", "error", h.initErr)
		WriteErrorResponse(w, http.StatusServiceUnavailable,
			"RAG pipeline unavailable. Check server logs for the initialization error.")
		return
	}

	var requestData api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		log.Warn("Bad chat request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}
	if msg, ok := validateChatRequest(&requestData); !ok {
		log.Warn("Bad chat request", "reason", msg, "query", requestData.Query)
		WriteErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	answer, hits, err := h.svc.Answer(r.Context(), requestData.Query, requestData.K)
	if err != nil {
		log.Error("Answer generation failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "RAG generation failed")
		return
	}

	writeJsonResponse(w, http.StatusOK, api.ChatResponse{
		Query:    requestData.Query,
		Answer:   answer,
		Contexts: toAPIHits(hits),
	})
}

// HealthHandler godoc
// @Summary      Liveness probe
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /healthz [get]
func (h *RagHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Ok: true})
}

// validateChatRequest normalizes k in place and reports the first problem.
func validateChatRequest(req *api.ChatRequest) (string, bool) {
	if len(req.Query) < config.MinQueryLen {
		return "query must be at least 2 characters", false
	}
	if req.K == 0 {
		req.K = config.DefaultTopK
	}
	if req.K < 1 || req.K > config.MaxTopK {
		return "k must be between 1 and 20", false
	}
	return "", true
}

func toAPIHits(hits []commonModels.SearchHit) []api.Hit {
	out := make([]api.Hit, 0, len(hits))
	for _, hit := range hits {
		out = append(out, api.Hit{
			Text:  hit.Text,
			Score: float64(hit.Score),
			Source: api.Source{
				Title:    hit.Meta.Title,
				RecordID: hit.Meta.RecordID,
				URL:      hit.Meta.URL,
				Label:    hit.Meta.Label,
				Chunk:    hit.Meta.Chunk,
			},
		})
	}
	return out
}
