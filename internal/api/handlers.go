package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Birukzex/NCS/internal/catalog"
	"github.com/Birukzex/NCS/internal/domain"
	"github.com/Birukzex/NCS/internal/review"
)

// handleGetSession returns a snapshot of the full session state.
func (s *Server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.Snapshot())
}

// handleClearSession resets the session and deletes the persisted slot.
func (s *Server) handleClearSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.ClearSession())
}

type historyRequest struct {
	History string `json:"history"`
}

// handleSetHistory replaces the free-text patient history.
func (s *Server) handleSetHistory(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusOK, s.sessions.SetHistory(req.History))
}

type riskFactorsRequest struct {
	RiskFactors []string `json:"riskFactors"`
}

// handleSetRiskFactors replaces the risk-factor set.
func (s *Server) handleSetRiskFactors(c *gin.Context) {
	var req riskFactorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusOK, s.sessions.SetRiskFactors(req.RiskFactors))
}

// handleAddBlankFinding appends a placeholder finding row.
func (s *Server) handleAddBlankFinding(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.AddBlankFinding())
}

type catalogAddRequest struct {
	Nerve string `json:"nerve"`
	Side  string `json:"side"`
}

// handleAddCatalogFinding quick-adds a normal finding for a catalog nerve.
// The action is idempotent by nerve and side.
func (s *Server) handleAddCatalogFinding(c *gin.Context) {
	var req catalogAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	side := domain.Side(req.Side)
	if !side.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid side: %s", req.Side)})
		return
	}

	entry, ok := catalog.Lookup(req.Nerve)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown catalog nerve: %s", req.Nerve)})
		return
	}

	c.JSON(http.StatusOK, s.sessions.AddCatalogFinding(entry.Name, side, entry.Kind, entry.Category))
}

// handleUpdateFinding applies a partial update to one finding. An unknown id
// is a no-op and still answers with the current snapshot.
func (s *Server) handleUpdateFinding(c *gin.Context) {
	var upd domain.FindingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := upd.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.sessions.UpdateFinding(c.Param("id"), upd))
}

// handleRemoveFinding deletes one finding. Unknown ids are a no-op.
func (s *Server) handleRemoveFinding(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.RemoveFinding(c.Param("id")))
}

// handleGetCatalog returns the static nerve reference data and the
// risk-factor pick-list.
func (s *Server) handleGetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"riskFactors":           catalog.DefaultRiskFactors,
		"standardNerves":        catalog.StandardNerves,
		"specialInvestigations": catalog.SpecialInvestigations,
		"brachialPlexusNerves":  catalog.BrachialPlexusNerves,
		"repetitiveStimulation": catalog.RepetitiveStimulation,
	})
}

// handleRequestReview formats the session, asks the collaborator for an
// expert review, and records the outcome in the review sub-state. The call is
// synchronous; when requests overlap, the last outcome to arrive wins.
func (s *Server) handleRequestReview(c *gin.Context) {
	state := s.sessions.SetReviewLoading(true)

	text, err := s.reviewer.GenerateReview(c.Request.Context(), state.PatientData)
	if err != nil {
		s.log.WithError(err).Warn("Review request failed")
		c.JSON(http.StatusOK, s.sessions.SetReviewError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, s.sessions.SetReviewSuccess(text))
}

// handleChatStream relays a chat turn to the collaborator and streams reply
// fragments back as server-sent events. The prior transcript rides in the
// optional history query parameter as JSON; the frontend owns the transcript.
func (s *Server) handleChatStream(c *gin.Context) {
	message := c.Query("message")
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message parameter required"})
		return
	}

	var history []review.ChatMessage
	if raw := c.Query("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history parameter"})
			return
		}
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	err := s.reviewer.StreamChat(c.Request.Context(), history, message, func(fragment string) error {
		payload, err := json.Marshal(gin.H{"text": fragment})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		s.log.WithError(err).Warn("Chat stream failed")
		payload, _ := json.Marshal(gin.H{"error": err.Error()})
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		c.Writer.Flush()
		return
	}

	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}
