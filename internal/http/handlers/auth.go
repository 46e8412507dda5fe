package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

type userView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

func viewOf(a *types.Account) userView {
	return userView{ID: a.ID, Name: a.Name, Role: a.Role}
}

// POST /api/v1/auth/signup
func (ah *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"max=100"`
		Password string `json:"password" binding:"max=72"`
		Role     string `json:"role"`
	}
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	res, err := ah.authService.Signup(c.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"token": res.Token, "user": viewOf(res.Account)})
}

// POST /api/v1/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password" binding:"max=72"`
	}
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"token": res.Token, "user": viewOf(res.Account)})
}

// GET /api/v1/auth/me
func (ah *AuthHandler) Me(c *gin.Context) {
	caller := callerOf(c)
	response.RespondOK(c, gin.H{"user": userView{ID: caller.AccountID, Name: caller.Name, Role: caller.Role}})
}

// POST /api/v1/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context(), callerOf(c)); err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}
