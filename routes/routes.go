package routes

import (
	"time"

	"localserve/config"
	adminController "localserve/controllers/admin"
	authController "localserve/controllers/auth"
	bookingController "localserve/controllers/booking"
	notificationController "localserve/controllers/notification"
	profileController "localserve/controllers/profile"
	vendorController "localserve/controllers/vendor"
	"localserve/httpServices/mailer"
	"localserve/logger"
	"localserve/middleware"
	userModel "localserve/models/user"
	authService "localserve/services/auth"
	bookingService "localserve/services/booking"
	"localserve/services/notification"
	otpService "localserve/services/otp"
	profileService "localserve/services/profile"
	ratingService "localserve/services/rating"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// SetupRoutes wires services, controllers and route groups. Returns the
// rating publisher so main can run its sweep loop.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) *ratingService.Publisher {
	mailClient := mailer.NewClient(cfg.MailGatewayURL, cfg.MailFrom, cfg.MailFromName)
	auditLogger := logger.NewAsyncLogger(db)

	otpSvc := otpService.NewService(db, mailClient, auditLogger)
	authSvc := authService.NewService(db, cfg, otpSvc, auditLogger)
	notifier := notification.NewDispatcher(db)
	bookingSvc := bookingService.NewService(db, cfg, notifier, mailClient)
	ratingSvc := ratingService.NewService(db)
	profileSvc := profileService.NewService(db)

	authCtl := authController.NewAuthController(db, authSvc)
	bookingCtl := bookingController.NewBookingController(db, bookingSvc, ratingSvc)
	profileCtl := profileController.NewProfileController(db, profileSvc)
	notificationCtl := notificationController.NewNotificationController(db)
	vendorCtl := vendorController.NewVendorController(db)
	adminCtl := adminController.NewAdminController(db)

	// Start the async audit logger processing goroutine
	go auditLogger.ProcessLog()

	api := app.Group("/api", middleware.Maintenance(cfg))

	/*=============================================================================
	| Auth Routes
	===============================================================================*/
	authLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: 15 * time.Minute,
	})

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authLimiter, authCtl.Register)
	authGroup.Post("/verify-otp", authLimiter, authCtl.VerifyOTP)
	authGroup.Post("/login", authLimiter, authCtl.Login)
	authGroup.Post("/resend-otp", authLimiter, authCtl.ResendOTP)
	authGroup.Post("/refresh", authCtl.Refresh)
	authGroup.Post("/logout", middleware.Authenticate(cfg), authCtl.Logout)
	authGroup.Get("/me", middleware.Authenticate(cfg), authCtl.Me)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/bookings", middleware.Authenticate(cfg))

	bookingGroup.Post("/", middleware.Authorize(userModel.RoleCustomer), bookingCtl.Store)
	bookingGroup.Get("/", bookingCtl.Index)
	bookingGroup.Get("/:id", bookingCtl.Show)
	bookingGroup.Patch("/:id/status", middleware.Authorize(
		userModel.RoleVendor, userModel.RoleAdmin, userModel.RoleCustomer,
	), bookingCtl.UpdateStatus)
	bookingGroup.Post("/:id/verify-otp", middleware.Authorize(userModel.RoleVendor), bookingCtl.VerifyJobOTP)
	bookingGroup.Patch("/:id/price", middleware.Authorize(userModel.RoleVendor), bookingCtl.UpdatePrice)
	bookingGroup.Post("/:id/rate", middleware.Authorize(userModel.RoleCustomer), bookingCtl.Rate)

	/*=============================================================================
	| Profile Routes
	===============================================================================*/
	profileGroup := api.Group("/profile", middleware.Authenticate(cfg))

	profileGroup.Get("/addresses", profileCtl.ListAddresses)
	profileGroup.Post("/addresses", profileCtl.CreateAddress)
	profileGroup.Put("/addresses/:id", profileCtl.UpdateAddress)
	profileGroup.Delete("/addresses/:id", profileCtl.DeleteAddress)
	profileGroup.Post("/vendor/services", middleware.Authorize(userModel.RoleVendor), profileCtl.AddVendorService)
	profileGroup.Get("/vendor/services", middleware.Authorize(userModel.RoleVendor), profileCtl.ListVendorServices)
	profileGroup.Patch("/vendor/services/:id", middleware.Authorize(userModel.RoleVendor), profileCtl.UpdateVendorService)

	/*=============================================================================
	| Browse & Feed Routes
	===============================================================================*/
	api.Get("/vendors", vendorCtl.Index)
	api.Get("/vendors/:id", vendorCtl.Show)

	notificationGroup := api.Group("/notifications", middleware.Authenticate(cfg))
	notificationGroup.Get("/", notificationCtl.Index)
	notificationGroup.Patch("/:id/read", notificationCtl.MarkRead)
	notificationGroup.Patch("/read-all", notificationCtl.MarkAllRead)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	adminGroup := api.Group("/admin", middleware.Authenticate(cfg), middleware.Authorize(userModel.RoleAdmin))
	adminGroup.Get("/users", adminCtl.ListUsers)
	adminGroup.Patch("/users/:id/blocked", adminCtl.SetBlocked)

	return ratingService.NewPublisher(ratingSvc)
}
