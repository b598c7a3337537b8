package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userapp "luminara/internal/application/user"
	"luminara/internal/domain/user"
	"luminara/internal/shared/i18n"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/utils"
)

type AuthHandler struct {
	registerUseCase *userapp.RegisterUseCase
	loginUseCase    *userapp.LoginUseCase
	logger          logger.Interface
}

func NewAuthHandler(
	registerUseCase *userapp.RegisterUseCase,
	loginUseCase *userapp.LoginUseCase,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logger:          logger,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Locale   string `json:"locale"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UserResponse struct {
	SID    string `json:"sid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func toUserResponse(usr *user.User) UserResponse {
	return UserResponse{
		SID:    usr.SID(),
		Email:  usr.Email(),
		Name:   usr.Name(),
		Locale: usr.Locale(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = i18n.MatchLocale(c.GetHeader("Accept-Language"))
	}

	usr, err := h.registerUseCase.Execute(c.Request.Context(), userapp.RegisterCommand{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Locale:   locale,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toUserResponse(usr))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), userapp.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, gin.H{
		"user": toUserResponse(result.User),
		"tokens": TokenResponse{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
			ExpiresIn:    result.Tokens.ExpiresIn,
		},
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tokens, err := h.loginUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	})
}
