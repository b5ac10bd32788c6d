package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/services"
	"github.com/bookahead/backend/utils"
)

type TableController struct {
	Tables       *services.TableService
	Reservations *services.ReservationService
	Queries      *services.QueryService
}

func NewTableController(tables *services.TableService, reservations *services.ReservationService, queries *services.QueryService) *TableController {
	return &TableController{Tables: tables, Reservations: reservations, Queries: queries}
}

// AddTable -> POST /tables/add
func (tc *TableController) AddTable(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req struct {
		TableNumber    int                  `json:"tableNumber"`
		RestaurantName string               `json:"restaurantName"`
		AssignedUser   string               `json:"assignedUser"`
		Reservations   []models.Reservation `json:"reservations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.CreateTable(c.Request.Context(), id, services.CreateTableInput{
		TableNumber:    req.TableNumber,
		RestaurantName: req.RestaurantName,
		AssignedUser:   req.AssignedUser,
		Reservations:   req.Reservations,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table added successfully", table)
}

// GetTables -> GET /tables/get?restaurantName=
func (tc *TableController) GetTables(c *gin.Context) {
	tables, err := tc.Queries.TablesByRestaurant(c.Request.Context(), c.Query("restaurantName"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// ReserveTable -> POST /tables/reserve
func (tc *TableController) ReserveTable(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req struct {
		TableNumber     int    `json:"tableNumber"`
		RestaurantName  string `json:"restaurantName"`
		User            string `json:"user"`
		ReservationDate string `json:"reservationDate"`
		ReservationTime string `json:"reservationTime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Reservations.AddReservation(c.Request.Context(), id, services.AddReservationInput{
		TableNumber:     req.TableNumber,
		RestaurantName:  req.RestaurantName,
		User:            req.User,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table reserved successfully", table)
}

// DeleteReservation -> DELETE /tables/:tableNumber/reservations
// The restaurantName body field is optional; without it the table is
// looked up by number alone.
func (tc *TableController) DeleteReservation(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	tableNumber, ok := parseTableNumber(c)
	if !ok {
		return
	}
	var req struct {
		RestaurantName  string `json:"restaurantName"`
		ReservationDate string `json:"reservationDate"`
		ReservationTime string `json:"reservationTime"`
		User            string `json:"user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Reservations.RemoveReservation(c.Request.Context(), id, services.RemoveReservationInput{
		TableNumber:     tableNumber,
		RestaurantName:  req.RestaurantName,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
		User:            req.User,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted successfully", table)
}

// FreeReservation -> POST /tables/free
func (tc *TableController) FreeReservation(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req struct {
		TableID       uint   `json:"tableId"`
		ReservationID string `json:"reservationId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Reservations.FreeReservation(c.Request.Context(), id, req.TableID, req.ReservationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table freed successfully", table)
}

// DeleteTable -> DELETE /tables/delete/:tableNumber[?restaurantName=]
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	tableNumber, ok := parseTableNumber(c)
	if !ok {
		return
	}

	if err := tc.Tables.DeleteTable(c.Request.Context(), id, tableNumber, c.Query("restaurantName")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", nil)
}

type assignmentRequest struct {
	TableNumber    int    `json:"tableNumber"`
	RestaurantName string `json:"restaurantName"`
	UserName       string `json:"userName"`
}

// BlockTable -> POST /tables/block
func (tc *TableController) BlockTable(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.BlockTable(c.Request.Context(), id, req.TableNumber, req.RestaurantName, req.UserName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table blocked successfully", table)
}

// UnblockTable -> POST /tables/unblock
func (tc *TableController) UnblockTable(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.UnblockTable(c.Request.Context(), id, req.TableNumber, req.RestaurantName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table unblocked successfully", table)
}

// WeeklyReservations -> GET /tables/week?restaurantName=&startDate=&endDate=
func (tc *TableController) WeeklyReservations(c *gin.Context) {
	tables, err := tc.Queries.WeeklyReservations(c.Request.Context(),
		c.Query("restaurantName"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations in range", tables)
}

// BlockedTables -> GET /tables/blocked-tables?userName=
func (tc *TableController) BlockedTables(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	userName, ok := userNameParam(c, id)
	if !ok {
		return
	}

	tables, err := tc.Queries.BlockedTables(c.Request.Context(), userName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Blocked tables", tables)
}

// UserReservations -> GET /tables/user-reservations?userName=
func (tc *TableController) UserReservations(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	userName, ok := userNameParam(c, id)
	if !ok {
		return
	}

	tables, err := tc.Queries.UserReservations(c.Request.Context(), userName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User reservations", tables)
}
