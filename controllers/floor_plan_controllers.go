package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/utils"
)

// SaveFloorPlan -> POST /addGrundriss
func (rc *RestaurantController) SaveFloorPlan(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req struct {
		RestaurantName string `json:"restaurantName"`
		ImageURL       string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	plan, err := rc.Restaurants.SaveFloorPlan(c.Request.Context(), id, req.RestaurantName, req.ImageURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Image uploaded successfully", plan)
}

// GetFloorPlan -> GET /addGrundriss/:restaurantName
func (rc *RestaurantController) GetFloorPlan(c *gin.Context) {
	plan, err := rc.Restaurants.FloorPlan(c.Request.Context(), c.Param("restaurantName"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Floor plan", plan)
}

// DeleteFloorPlan -> DELETE /addGrundriss/:restaurantName
func (rc *RestaurantController) DeleteFloorPlan(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	if err := rc.Restaurants.DeleteFloorPlan(c.Request.Context(), id, c.Param("restaurantName")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Image deleted successfully", nil)
}
