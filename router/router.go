package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/controllers"
	"github.com/bookahead/backend/middlewares"
	"github.com/bookahead/backend/services"
	"github.com/bookahead/backend/utils"
)

// Deps carries the services the HTTP surface is built from.
type Deps struct {
	Tables       *services.TableService
	Reservations *services.ReservationService
	Queries      *services.QueryService
	Restaurants  *services.RestaurantService
	Accounts     *services.AccountService

	CORSOrigin  string
	RateLimiter *middlewares.RateLimiter
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.RateLimit())
	}

	tableCtrl := controllers.NewTableController(deps.Tables, deps.Reservations, deps.Queries)
	restaurantCtrl := controllers.NewRestaurantController(deps.Restaurants)
	userCtrl := controllers.NewUserController(deps.Accounts)
	ownerCtrl := controllers.NewOwnerController(deps.Accounts)

	auth := middlewares.AuthMiddleware()
	ownerOnly := middlewares.RequireRole(utils.RoleOwner)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", ownerCtrl.Login)
		public.POST("/restaurants/registerOwner", ownerCtrl.Register)
		public.POST("/api/users/register", userCtrl.Register)
		public.POST("/api/users/login", userCtrl.Login)
	}
	r.GET("/api/users/verify-email", userCtrl.VerifyEmail)

	r.GET("/tables/get", tableCtrl.GetTables)
	r.GET("/tables/week", tableCtrl.WeeklyReservations)
	r.GET("/restaurants/get", restaurantCtrl.GetRestaurants)
	r.GET("/restaurants/all", restaurantCtrl.GetAllRestaurants)
	r.GET("/addGrundriss/:restaurantName", restaurantCtrl.GetFloorPlan)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	r.POST("/logout", auth, controllers.Logout)

	// diners and owners
	r.POST("/tables/reserve", auth, tableCtrl.ReserveTable)
	r.DELETE("/tables/:tableNumber/reservations", auth, tableCtrl.DeleteReservation)
	r.POST("/tables/free", auth, tableCtrl.FreeReservation)
	r.GET("/tables/blocked-tables", auth, tableCtrl.BlockedTables)
	r.GET("/tables/user-reservations", auth, tableCtrl.UserReservations)

	// diners
	users := r.Group("/update", auth, middlewares.RequireRole(utils.RoleUser))
	{
		users.PUT("", userCtrl.UpdateProfile)
		users.DELETE("/delete", middlewares.AuditLogger("user", ""), userCtrl.DeleteProfile)
	}

	// owners
	owners := r.Group("/", auth, ownerOnly)
	{
		owners.POST("/tables/add", tableCtrl.AddTable)
		owners.DELETE("/tables/delete/:tableNumber", middlewares.AuditLogger("table", "tableNumber"), tableCtrl.DeleteTable)
		owners.POST("/tables/block", tableCtrl.BlockTable)
		owners.POST("/tables/unblock", tableCtrl.UnblockTable)

		owners.POST("/restaurants/add", restaurantCtrl.AddRestaurant)
		owners.DELETE("/restaurants/delete/:name", middlewares.AuditLogger("restaurant", "name"), restaurantCtrl.DeleteRestaurant)

		owners.POST("/addGrundriss", restaurantCtrl.SaveFloorPlan)
		owners.DELETE("/addGrundriss/:restaurantName", restaurantCtrl.DeleteFloorPlan)
	}

	return r
}
