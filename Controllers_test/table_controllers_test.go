package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookahead/backend/models"
)

func seedOwnedRestaurant(t *testing.T, db *gorm.DB, name, owner string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Restaurant{
		Name: name, Description: "d", OpeningHours: "11-23", Stars: 3,
		Address: "a", PhoneNumber: "p", OwnerName: owner,
	}).Error)
}

func TestAddTable(t *testing.T) {
	db := setupTestDB(t)
	seedOwnedRestaurant(t, db, "A", "Alice's")
	router := setupRouter(db)
	token := ownerToken(t, 1, "Alice's")

	body := map[string]interface{}{"tableNumber": 1, "restaurantName": "A"}
	w, env := doRequest(t, router, http.MethodPost, "/tables/add", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Table added successfully", env.Message)

	var table models.Table
	decodeData(t, env, &table)
	assert.Equal(t, 1, table.TableNumber)
	assert.False(t, table.Blocked)
	assert.Empty(t, table.Reservations)

	w, env = doRequest(t, router, http.MethodPost, "/tables/add", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Table number already exists for this restaurant.", env.Message)
	assert.False(t, env.Status)
}

func TestAddTableRequiresOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	body := map[string]interface{}{"tableNumber": 1, "restaurantName": "A"}

	w, _ := doRequest(t, router, http.MethodPost, "/tables/add", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doRequest(t, router, http.MethodPost, "/tables/add", userToken(t, 1, "anna"), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doRequest(t, router, http.MethodPost, "/tables/add", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetTables(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	w, env := doRequest(t, router, http.MethodGet, "/tables/get?restaurantName=A", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Tables not found", env.Message)

	w, env = doRequest(t, router, http.MethodGet, "/tables/get", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Restaurant name parameter missing", env.Message)

	require.NoError(t, db.Create(&models.Table{TableNumber: 3, RestaurantName: "A"}).Error)
	w, env = doRequest(t, router, http.MethodGet, "/tables/get?restaurantName=A", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tables []models.Table
	decodeData(t, env, &tables)
	assert.Len(t, tables, 1)
}

func TestReserveAndDeleteReservation(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Table{TableNumber: 1, RestaurantName: "A"}).Error)
	router := setupRouter(db)
	token := userToken(t, 1, "User1")

	reserve := map[string]interface{}{
		"tableNumber":     1,
		"restaurantName":  "A",
		"user":            "User1",
		"reservationDate": "2023-09-08",
		"reservationTime": "12:00",
	}
	w, env := doRequest(t, router, http.MethodPost, "/tables/reserve", token, reserve)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var table models.Table
	decodeData(t, env, &table)
	require.Len(t, table.Reservations, 1)
	assert.Equal(t, "User1", table.Reservations[0].User)
	assert.Contains(t, string(env.Data), `"_id"`)

	w, env = doRequest(t, router, http.MethodPost, "/tables/reserve", token, reserve)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Table already reserved for this date", env.Message)

	reserve["reservationDate"] = "2023-09-09"
	reserve["reservationTime"] = "09:00"
	w, _ = doRequest(t, router, http.MethodPost, "/tables/reserve", token, reserve)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reserve["tableNumber"] = 42
	reserve["reservationTime"] = "12:00"
	w, _ = doRequest(t, router, http.MethodPost, "/tables/reserve", token, reserve)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// no match is still a success
	remove := map[string]string{"reservationDate": "2023-09-08", "reservationTime": "13:00", "user": "User1"}
	w, env = doRequest(t, router, http.MethodDelete, "/tables/1/reservations", token, remove)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &table)
	assert.Len(t, table.Reservations, 1)

	remove["reservationTime"] = "12:00"
	w, env = doRequest(t, router, http.MethodDelete, "/tables/1/reservations", token, remove)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reservation deleted successfully", env.Message)
	decodeData(t, env, &table)
	assert.Empty(t, table.Reservations)

	w, _ = doRequest(t, router, http.MethodDelete, "/tables/x/reservations", token, remove)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFreeReservationByID(t *testing.T) {
	db := setupTestDB(t)
	seeded := models.Table{TableNumber: 1, RestaurantName: "A", Reservations: []models.Reservation{
		{ID: "r1", User: "anna", ReservationDate: "2023-09-08", ReservationTime: "12:00"},
	}}
	require.NoError(t, db.Create(&seeded).Error)
	router := setupRouter(db)

	body := map[string]interface{}{"tableId": seeded.ID, "reservationId": "r1"}
	w, _ := doRequest(t, router, http.MethodPost, "/tables/free", userToken(t, 2, "ben"), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doRequest(t, router, http.MethodPost, "/tables/free", userToken(t, 1, "anna"), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var table models.Table
	decodeData(t, env, &table)
	assert.Empty(t, table.Reservations)
}

func TestDeleteTable(t *testing.T) {
	db := setupTestDB(t)
	seedOwnedRestaurant(t, db, "A", "Alice's")
	require.NoError(t, db.Create(&models.Table{TableNumber: 1, RestaurantName: "A"}).Error)
	router := setupRouter(db)
	token := ownerToken(t, 1, "Alice's")

	w, _ := doRequest(t, router, http.MethodDelete, "/tables/delete/1?restaurantName=A", ownerToken(t, 2, "Bob's"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doRequest(t, router, http.MethodDelete, "/tables/delete/1?restaurantName=A", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Table deleted successfully", env.Message)

	w, env = doRequest(t, router, http.MethodDelete, "/tables/delete/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Table not found", env.Message)
}

func TestBlockUnblockAndBlockedTables(t *testing.T) {
	db := setupTestDB(t)
	seedOwnedRestaurant(t, db, "A", "Alice's")
	require.NoError(t, db.Create(&models.Table{TableNumber: 1, RestaurantName: "A"}).Error)
	router := setupRouter(db)
	owner := ownerToken(t, 1, "Alice's")
	anna := userToken(t, 7, "anna")

	body := map[string]interface{}{"tableNumber": 1, "restaurantName": "A", "userName": "anna"}
	w, env := doRequest(t, router, http.MethodPost, "/tables/block", owner, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var table models.Table
	decodeData(t, env, &table)
	assert.True(t, table.Blocked)
	assert.Equal(t, "anna", table.AssignedUser)

	w, env = doRequest(t, router, http.MethodGet, "/tables/blocked-tables", anna, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tables []models.Table
	decodeData(t, env, &tables)
	assert.Len(t, tables, 1)

	w, _ = doRequest(t, router, http.MethodGet, "/tables/blocked-tables?userName=ben", anna, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doRequest(t, router, http.MethodPost, "/tables/unblock", owner, body)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doRequest(t, router, http.MethodGet, "/tables/blocked-tables", anna, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Tables not found", env.Message)
}

func TestWeekAndUserReservations(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Table{TableNumber: 1, RestaurantName: "A", Reservations: []models.Reservation{
		{ID: "r1", User: "anna", ReservationDate: "2023-09-04", ReservationTime: "12:00"},
		{ID: "r2", User: "ben", ReservationDate: "2023-09-06", ReservationTime: "12:00"},
		{ID: "r3", User: "anna", ReservationDate: "2023-09-20", ReservationTime: "12:00"},
	}}).Error)
	router := setupRouter(db)

	w, env := doRequest(t, router, http.MethodGet, "/tables/week?restaurantName=A&startDate=2023-09-04&endDate=2023-09-10", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var week []models.Table
	decodeData(t, env, &week)
	assert.Len(t, week, 2)

	w, _ = doRequest(t, router, http.MethodGet, "/tables/week?restaurantName=A&startDate=bad&endDate=2023-09-10", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doRequest(t, router, http.MethodGet, "/tables/user-reservations", userToken(t, 1, "anna"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Table
	decodeData(t, env, &mine)
	assert.Len(t, mine, 2)
}
