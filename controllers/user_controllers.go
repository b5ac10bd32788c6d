package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/services"
	"github.com/bookahead/backend/utils"
)

type UserController struct {
	Accounts *services.AccountService
}

func NewUserController(accounts *services.AccountService) *UserController {
	return &UserController{Accounts: accounts}
}

// Register -> POST /api/users/register
func (uc *UserController) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		LastName string `json:"lastName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Accounts.RegisterUser(c.Request.Context(), services.RegisterUserInput{
		Name:     input.Name,
		LastName: input.LastName,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User registered, please verify your email", user)
}

// Login -> POST /api/users/login
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, token, err := uc.Accounts.LoginUser(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// VerifyEmail -> GET /api/users/verify-email?emailToken=
func (uc *UserController) VerifyEmail(c *gin.Context) {
	user, err := uc.Accounts.VerifyEmail(c.Request.Context(), c.Query("emailToken"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Email verified successfully", user)
}

// UpdateProfile -> PUT /update
func (uc *UserController) UpdateProfile(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var input struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		LastName string `json:"lastName"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Accounts.UpdateUser(c.Request.Context(), id, services.UpdateUserInput{
		Email:    input.Email,
		Name:     input.Name,
		LastName: input.LastName,
		Password: input.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := gin.H{"user": user}
	if user.Name != id.Name {
		// the old token still carries the previous name
		token, err := utils.GenerateToken(user.ID, user.Name, utils.RoleUser)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		revokeCurrentToken(c)
		data["token"] = token
	}
	utils.RespondJSON(c, http.StatusOK, "User updated successfully", data)
}

// DeleteProfile -> DELETE /update/delete
func (uc *UserController) DeleteProfile(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	unblocked, err := uc.Accounts.DeleteUser(c.Request.Context(), id, input.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	revokeCurrentToken(c)
	utils.RespondJSON(c, http.StatusOK, "User profile deleted successfully", gin.H{"unblockedTables": unblocked})
}

// Logout -> POST /logout
func Logout(c *gin.Context) {
	if !revokeCurrentToken(c) {
		utils.RespondError(c, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out successfully", nil)
}
