package message

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"snappy/logger"
)

// Handler exposes the history collaborator over REST, mirroring the mobile
// client's addmsg/getmsg calls. The websocket path persists on its own; this
// surface exists for history fetch and for clients that post before relaying.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

type addMessageReq struct {
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
	Content string `json:"content" binding:"required"`
	Kind    string `json:"kind"`
}

func (h *Handler) AddMessage(c *gin.Context) {
	var req addMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	kind := req.Kind
	if kind == "" {
		kind = "text"
	}
	if err := h.store.Save(c.Request.Context(), req.From, req.To, req.Content, kind); err != nil {
		logger.Errorf("[messages] add err from=%s to=%s: %v", req.From, req.To, err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to store message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "message added"})
}

type getMessagesReq struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type messageView struct {
	FromSelf  bool      `json:"fromSelf"`
	Content   string    `json:"content"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) GetMessages(c *gin.Context) {
	var req getMessagesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	msgs, err := h.store.Between(c.Request.Context(), req.From, req.To)
	if err != nil {
		logger.Errorf("[messages] get err from=%s to=%s: %v", req.From, req.To, err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to fetch messages"})
		return
	}
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageView{
			FromSelf:  m.Sender == req.From,
			Content:   m.Content,
			Kind:      m.Kind,
			CreatedAt: m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
