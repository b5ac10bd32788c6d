package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/services"
	"github.com/bookahead/backend/utils"
)

type OwnerController struct {
	Accounts *services.AccountService
}

func NewOwnerController(accounts *services.AccountService) *OwnerController {
	return &OwnerController{Accounts: accounts}
}

// Register -> POST /restaurants/registerOwner
func (oc *OwnerController) Register(c *gin.Context) {
	var input struct {
		RestaurantName  string `json:"restaurantName"`
		Address         string `json:"address"`
		PostalCode      string `json:"postalCode"`
		City            string `json:"city"`
		PhoneNumber     string `json:"phoneNumber"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		utils.RespondMessage(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	owner, err := oc.Accounts.RegisterOwner(c.Request.Context(), services.RegisterOwnerInput{
		RestaurantName: input.RestaurantName,
		Address:        input.Address,
		PostalCode:     input.PostalCode,
		City:           input.City,
		PhoneNumber:    input.PhoneNumber,
		Email:          input.Email,
		Password:       input.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Registration successful", owner)
}

// Login -> POST /login
func (oc *OwnerController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	owner, token, err := oc.Accounts.LoginOwner(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"owner": owner,
	})
}
