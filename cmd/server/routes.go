package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"givora.backend/internal/domain/entities"
	"givora.backend/internal/interfaces/http/handlers"
	"givora.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler      *handlers.AuthHandler
	donationHandler  *handlers.DonationHandler
	orphanageHandler *handlers.OrphanageHandler
	healthHandler    *handlers.HealthHandler
	authMiddleware   gin.HandlerFunc
	metrics          http.Handler
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/health", d.healthHandler.Health)
	r.GET("/metrics", gin.WrapH(d.metrics))

	// Auth routes (public)
	r.POST("/register", d.authHandler.Register)
	r.POST("/login", d.authHandler.Login)
	r.POST("/logout", d.authHandler.Logout)
	r.POST("/refresh", d.authHandler.RefreshToken)

	// Payment callback carries its own proof
	r.POST("/donate/verify", d.donationHandler.VerifyPayment)

	r.GET("/public/orphanages", d.orphanageHandler.ListOrphanages)

	authed := r.Group("")
	authed.Use(d.authMiddleware)
	{
		authed.GET("/user-role", d.authHandler.GetUserRole)
		authed.GET("/user/profile", d.authHandler.GetProfile)
		authed.PUT("/user/profile", d.authHandler.UpdateProfile)

		authed.POST("/donate", middleware.IdempotencyMiddleware(), d.donationHandler.CreateDonation)
		authed.GET("/user/donations", d.donationHandler.ListUserDonations)
		authed.GET("/donations/:id", d.donationHandler.GetDonation)

		authed.GET("/volunteer/donations",
			middleware.RequireRole(entities.UserRoleVolunteer, entities.UserRoleAdmin),
			d.donationHandler.ListRecentDonations,
		)
		authed.DELETE("/admin/donations/:id", middleware.RequireAdmin(), d.donationHandler.DeleteDonation)

		orphanages := authed.Group("/orphanages")
		{
			orphanages.GET("", d.orphanageHandler.ListOrphanages)
			orphanages.POST("", d.orphanageHandler.CreateOrphanage)
			orphanages.GET("/:id", d.orphanageHandler.GetOrphanage)
			orphanages.PUT("/:id", d.orphanageHandler.UpdateOrphanage)
			orphanages.DELETE("/:id", d.orphanageHandler.DeleteOrphanage)
		}
	}
}
