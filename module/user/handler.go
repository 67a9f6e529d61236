package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"snappy/logger"
	"snappy/module/user/service"
)

// Handler exposes register/login/contact-listing over REST. Authentication
// exists only to mint the identity the websocket identify event carries.
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler { return &Handler{svc: svc} }

type registerReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "msg": err.Error()})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusOK, gin.H{"status": false, "msg": err.Error()})
	case err != nil:
		logger.Errorf("[auth] register err user=%s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "msg": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": true, "user": u})
	}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "msg": err.Error()})
		return
	}
	u, token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusOK, gin.H{"status": false, "msg": err.Error()})
	case err != nil:
		logger.Errorf("[auth] login err user=%s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "msg": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": true, "user": u, "token": token})
	}
}

func (h *Handler) AllUsers(c *gin.Context) {
	users, err := h.svc.AllUsers(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Errorf("[auth] allusers err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "msg": "internal error"})
		return
	}
	c.JSON(http.StatusOK, users)
}
