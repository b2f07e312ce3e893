package controllers

import (
	"StockDash/models"
	"StockDash/services"
	"StockDash/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthController handles registration, login, profile and favorites.
type AuthController struct {
	UserService  *services.UserService
	TokenService *services.TokenService
}

// NewAuthController initializes AuthController.
func NewAuthController(userService *services.UserService, tokenService *services.TokenService) *AuthController {
	return &AuthController{
		UserService:  userService,
		TokenService: tokenService,
	}
}

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FavoriteRequest is the body of POST /api/auth/favorites.
type FavoriteRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

func (h *AuthController) RegisterUser(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if fields := utils.BindingErrorFields(err); fields != nil {
			utils.ValidationErrorResponse(ctx, fields)
			return
		}
		utils.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fields := utils.ValidateCredentials(req.Email, req.Password); len(fields) > 0 {
		utils.ValidationErrorResponse(ctx, fields)
		return
	}

	user, err := h.UserService.Register(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		ctx.Error(err)
		return
	}

	token, err := h.TokenService.Issue(user.ID)
	if err != nil {
		utils.ErrorResponse(ctx, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	utils.SuccessResponse(ctx, http.StatusCreated, "User registered successfully", gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthController) LoginUser(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if fields := utils.BindingErrorFields(err); fields != nil {
			utils.ValidationErrorResponse(ctx, fields)
			return
		}
		utils.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := h.UserService.FindByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		ctx.Error(err)
		return
	}
	if user == nil || !h.UserService.VerifyPassword(user, req.Password) {
		utils.ErrorResponse(ctx, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !user.IsActive {
		utils.ErrorResponse(ctx, http.StatusUnauthorized, "account deactivated")
		return
	}

	if err := h.UserService.RecordLogin(ctx.Request.Context(), user); err != nil {
		ctx.Error(err)
		return
	}

	token, err := h.TokenService.Issue(user.ID)
	if err != nil {
		utils.ErrorResponse(ctx, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthController) GetProfile(ctx *gin.Context) {
	user, ok := h.currentUser(ctx)
	if !ok {
		return
	}
	utils.SuccessResponse(ctx, http.StatusOK, "success fetch user profile", gin.H{"user": user})
}

func (h *AuthController) UpdateProfile(ctx *gin.Context) {
	var profile models.Profile
	if err := ctx.ShouldBindJSON(&profile); err != nil {
		utils.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fields := profile.Validate(); len(fields) > 0 {
		utils.ValidationErrorResponse(ctx, fields)
		return
	}

	user, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	if err := h.UserService.UpdateProfile(ctx.Request.Context(), user, profile); err != nil {
		ctx.Error(err)
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "Profile updated", gin.H{"user": user})
}

func (h *AuthController) AddFavorite(ctx *gin.Context) {
	var req FavoriteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if fields := utils.BindingErrorFields(err); fields != nil {
			utils.ValidationErrorResponse(ctx, fields)
			return
		}
		utils.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	added, err := h.UserService.AddFavorite(ctx.Request.Context(), user, req.Ticker)
	if err != nil {
		ctx.Error(err)
		return
	}
	if !added {
		utils.ErrorResponse(ctx, http.StatusConflict, "Ticker already in favorites")
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "Favorite added", gin.H{"user": user})
}

func (h *AuthController) RemoveFavorite(ctx *gin.Context) {
	ticker := ctx.Param("ticker")

	user, ok := h.currentUser(ctx)
	if !ok {
		return
	}

	removed, err := h.UserService.RemoveFavorite(ctx.Request.Context(), user, ticker)
	if err != nil {
		ctx.Error(err)
		return
	}
	if !removed {
		utils.ErrorResponse(ctx, http.StatusNotFound, "Ticker not in favorites")
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "Favorite removed", gin.H{"user": user})
}

// currentUser loads the authenticated user attached by the auth
// middleware. Writes the error response itself when identity is absent.
func (h *AuthController) currentUser(ctx *gin.Context) (*models.User, bool) {
	userID, exists := ctx.Get("userId")
	if !exists {
		utils.ErrorResponse(ctx, http.StatusUnauthorized, "access token required")
		return nil, false
	}

	user, err := h.UserService.FindByID(ctx.Request.Context(), userID.(string))
	if err != nil {
		ctx.Error(err)
		return nil, false
	}
	if user == nil {
		utils.ErrorResponse(ctx, http.StatusUnauthorized, "invalid token or user not found")
		return nil, false
	}
	return user, true
}
