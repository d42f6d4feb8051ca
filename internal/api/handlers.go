package api

import (
	"context"
	"net/http"

	"childcare-assistant/internal/assistant"
	"childcare-assistant/internal/models"
	"childcare-assistant/internal/translation"

	"github.com/gin-gonic/gin"
)

type Asker interface {
	Ask(ctx context.Context, userID, text string) assistant.Reply
}

type HistoryReader interface {
	History(userID string) []models.Turn
}

type Translator interface {
	TranslateBatch(ctx context.Context, texts []string, target, source string) ([]string, error)
	DetectLanguage(ctx context.Context, text string) (translation.Detection, error)
}

type AskRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Question string `json:"question" binding:"required,max=2000"`
}

type HistoryResponse struct {
	UserID string        `json:"userId"`
	Turns  []models.Turn `json:"turns"`
}

type TranslateRequest struct {
	Texts      []string `json:"texts" binding:"required,min=1,max=100"`
	TargetLang string   `json:"targetLang" binding:"required"`
	SourceLang string   `json:"sourceLang"`
}

type TranslateResponse struct {
	Translations []string `json:"translations"`
	TargetLang   string   `json:"targetLang"`
}

type DetectRequest struct {
	Text string `json:"text" binding:"required"`
}

type Handler struct {
	asker      Asker
	history    HistoryReader
	translator Translator
}

func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	success(c, h.asker.Ask(c.Request.Context(), req.UserID, req.Question))
}

func (h *Handler) History(c *gin.Context) {
	userID := c.Param("userId")
	turns := h.history.History(userID)
	if turns == nil {
		turns = []models.Turn{}
	}
	success(c, HistoryResponse{UserID: userID, Turns: turns})
}

func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	out, err := h.translator.TranslateBatch(c.Request.Context(), req.Texts, req.TargetLang, req.SourceLang)
	if err != nil {
		_ = c.Error(err)
		failWithError(c, err)
		return
	}
	success(c, TranslateResponse{Translations: out, TargetLang: req.TargetLang})
}

func (h *Handler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	d, err := h.translator.DetectLanguage(c.Request.Context(), req.Text)
	if err != nil {
		_ = c.Error(err)
		failWithError(c, err)
		return
	}
	success(c, d)
}
