package handler

import (
	"errors"
	"net/http"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/catalog"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/service"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/session"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	svc      *service.EvaluationService
	sessions *session.Registry
	catalog  *catalog.Catalog
	log      *logger.Logger
}

func NewSessionHandler(svc *service.EvaluationService, sessions *session.Registry, cat *catalog.Catalog, log *logger.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, sessions: sessions, catalog: cat, log: log}
}

// CreateSession 同意画面。参加者IDを受け取りセッションを発行して進捗を返す
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req struct {
		ParticipantID string `json:"participant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := h.sessions.Create(req.ParticipantID)
	progress, err := h.svc.GetProgress(req.ParticipantID)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    sess.Token,
		"page":     sess.CurrentPage(),
		"progress": progress,
	})
}

// StartSlot 評価開始。現在slotを割り当ててフォーム画面へ遷移する。
// 継続選択画面の「次のslotを始める」もここに来る。
func (h *SessionHandler) StartSlot(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "セッションが見つかりません"})
		return
	}

	rec, err := h.svc.GetCurrentSlot(sess.ParticipantID)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	if err := sess.StartSlot(rec); err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	progress, _ := h.svc.GetProgress(sess.ParticipantID)

	if rec == nil {
		// 全slot完了
		c.JSON(http.StatusOK, gin.H{
			"page":     sess.CurrentPage(),
			"progress": progress,
		})
		return
	}

	paper, err := h.catalog.Get(rec.PaperID)
	if err != nil {
		h.log.Warn("カタログにない論文IDが割り当てられています", "paper_id", rec.PaperID)
	}
	// サマリーなし群には事前生成サマリーを見せない（条件の遮蔽）
	if !rec.HasSummary {
		paper.Info.Summary = ""
	}

	c.JSON(http.StatusOK, gin.H{
		"page":     sess.CurrentPage(),
		"record":   rec,
		"paper":    paper,
		"progress": progress,
	})
}

// Complete 評価完了。3つの必須フィールドを受けてslotを完了状態にする
func (h *SessionHandler) Complete(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "セッションが見つかりません"})
		return
	}

	rec := sess.ActiveRecord()
	if rec == nil {
		c.JSON(http.StatusConflict, gin.H{"error": session.ErrInvalidTransition.Error()})
		return
	}

	var data model.EvaluationData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Complete(sess.ParticipantID, rec.Slot, data); err != nil {
		// 失敗時は画面遷移しない（同じレコードのまま再試行できる）
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	if err := sess.FinishSlot(); err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	progress, _ := h.svc.GetProgress(sess.ParticipantID)
	c.JSON(http.StatusOK, gin.H{
		"page":           sess.CurrentPage(),
		"completed_slot": sess.CompletedSlot,
		"progress":       progress,
	})
}

// Interrupt 評価中断。論文を除外して代替論文を割り当てる
func (h *SessionHandler) Interrupt(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "セッションが見つかりません"})
		return
	}

	rec := sess.ActiveRecord()
	if rec == nil {
		c.JSON(http.StatusConflict, gin.H{"error": session.ErrInvalidTransition.Error()})
		return
	}

	if err := h.svc.Interrupt(sess.ParticipantID, rec.Slot, rec.PaperID); err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	if err := sess.FinishSlot(); err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	progress, _ := h.svc.GetProgress(sess.ParticipantID)
	c.JSON(http.StatusOK, gin.H{
		"page":     sess.CurrentPage(),
		"progress": progress,
	})
}

// Quit 継続選択画面で「今日はここまで」
func (h *SessionHandler) Quit(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "セッションが見つかりません"})
		return
	}
	if err := sess.Quit(); err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	progress, _ := h.svc.GetProgress(sess.ParticipantID)
	c.JSON(http.StatusOK, gin.H{
		"page":     sess.CurrentPage(),
		"progress": progress,
	})
}

// GetProgress 参加者の進捗（セッション不要の参照系）
func (h *SessionHandler) GetProgress(c *gin.Context) {
	progress, err := h.svc.GetProgress(c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// statusOf エンジンのエラー分類をHTTPステータスへ写像する
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrExhausted):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
