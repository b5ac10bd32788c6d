package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/services"
	"github.com/bookahead/backend/utils"
)

type RestaurantController struct {
	Restaurants *services.RestaurantService
}

func NewRestaurantController(restaurants *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Restaurants: restaurants}
}

// AddRestaurant -> POST /restaurants/add
func (rc *RestaurantController) AddRestaurant(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req struct {
		Name         string   `json:"name"`
		Description  string   `json:"description"`
		OpeningHours string   `json:"openingHours"`
		Stars        int      `json:"stars"`
		Address      string   `json:"address"`
		PhoneNumber  string   `json:"phoneNumber"`
		OwnerName    string   `json:"ownerName"`
		Images       []string `json:"images"`
		MenuImages   []string `json:"menuImages"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.OwnerName == "" && id.IsOwner() {
		req.OwnerName = id.Name
	}

	restaurant, err := rc.Restaurants.AddRestaurant(c.Request.Context(), id, services.AddRestaurantInput{
		Name:         req.Name,
		Description:  req.Description,
		OpeningHours: req.OpeningHours,
		Stars:        req.Stars,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		OwnerName:    req.OwnerName,
		Images:       req.Images,
		MenuImages:   req.MenuImages,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant added successfully", restaurant)
}

// GetRestaurants -> GET /restaurants/get?ownerName= or ?name=
func (rc *RestaurantController) GetRestaurants(c *gin.Context) {
	ctx := c.Request.Context()
	if name := c.Query("name"); name != "" {
		restaurant, err := rc.Restaurants.GetRestaurant(ctx, name)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Restaurant details", restaurant)
		return
	}

	restaurants, err := rc.Restaurants.RestaurantsByOwner(ctx, c.Query("ownerName"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// GetAllRestaurants -> GET /restaurants/all
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	restaurants, err := rc.Restaurants.ListRestaurants(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// DeleteRestaurant -> DELETE /restaurants/delete/:name
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	removed, err := rc.Restaurants.DeleteRestaurant(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant and associated tables deleted successfully",
		gin.H{"deletedTables": removed})
}
