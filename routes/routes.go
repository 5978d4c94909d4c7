// Package routes wires handlers, middleware and rate limits onto the
// router. Handlers arrive constructed; nothing here touches globals.
package routes

import (
	"net/http"

	"atlas/admin"
	"atlas/auth"
	"atlas/bookings"
	"atlas/dependants"
	"atlas/enquiries"
	"atlas/middleware"
	"atlas/payments"
	"atlas/ratelim"
	"atlas/reviews"
	"atlas/tours"

	"github.com/julienschmidt/httprouter"
)

// Deps collects everything the route table needs.
type Deps struct {
	Auth       *middleware.Auth
	RateLim    *ratelim.RateLimiter
	AuthH      *auth.Handlers
	ToursH     *tours.Handlers
	BookingsH  *bookings.Handlers
	DepsH      *dependants.Handlers
	ReviewsH   *reviews.Handlers
	EnquiriesH *enquiries.Handlers
	PaymentsH  *payments.Handlers
	AdminH     *admin.Handlers
	UploadDir  string
}

func New(d Deps) *httprouter.Router {
	router := httprouter.New()
	addStaticRoutes(router, d)
	addAuthRoutes(router, d)
	addTourRoutes(router, d)
	addBookingRoutes(router, d)
	addDependantRoutes(router, d)
	addReviewRoutes(router, d)
	addEnquiryRoutes(router, d)
	addPaymentRoutes(router, d)
	addAdminRoutes(router, d)
	return router
}

func addStaticRoutes(router *httprouter.Router, d Deps) {
	router.ServeFiles("/uploads/*filepath", http.Dir(d.UploadDir))
}

func addAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/register", d.RateLim.Limit(d.AuthH.Register))
	router.POST("/api/auth/login", d.RateLim.Limit(d.AuthH.Login))
	router.POST("/api/auth/logout", d.Auth.Authenticate(d.AuthH.Logout))
	router.POST("/api/auth/token/refresh", d.RateLim.Limit(d.AuthH.RefreshToken))
	router.POST("/api/auth/forgot-password", d.RateLim.Limit(d.AuthH.ForgotPassword))
	router.POST("/api/auth/reset-password", d.RateLim.Limit(d.AuthH.ResetPassword))

	router.GET("/api/profile", d.Auth.Authenticate(d.AuthH.GetProfile))
	router.PUT("/api/profile", d.Auth.Authenticate(d.AuthH.UpdateProfile))
	router.PUT("/api/profile/password", d.Auth.Authenticate(d.AuthH.ChangePassword))
}

func addTourRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/tours", d.Auth.OptionalAuth(d.ToursH.ListTours))
	router.GET("/api/tours/:tourId", d.Auth.OptionalAuth(d.ToursH.GetTour))

	router.POST("/api/tours", d.Auth.RequireAdmin(d.ToursH.CreateTour))
	router.PUT("/api/tours/:tourId", d.Auth.RequireAdmin(d.ToursH.UpdateTour))
	router.PUT("/api/tours/:tourId/status", d.Auth.RequireAdmin(d.ToursH.SetTourStatus))
	router.DELETE("/api/tours/:tourId", d.Auth.RequireAdmin(d.ToursH.DeleteTour))
	router.POST("/api/tours/:tourId/gallery", d.Auth.RequireAdmin(d.ToursH.UploadGalleryImage))
	router.DELETE("/api/tours/:tourId/gallery", d.Auth.RequireAdmin(d.ToursH.DeleteGalleryImage))
}

func addBookingRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/bookings", d.RateLim.Limit(d.Auth.OptionalAuth(d.BookingsH.CreateBooking)))
	// "mine" can't share the :bookingId segment under httprouter, so the
	// listing lives under /api/profile
	router.GET("/api/profile/bookings", d.Auth.Authenticate(d.BookingsH.ListMyBookings))
	router.GET("/api/bookings/:bookingId", d.Auth.OptionalAuth(d.BookingsH.GetBooking))
	router.GET("/api/bookings/:bookingId/updates", d.BookingsH.SubscribeUpdates)
	router.GET("/api/bookings/:bookingId/voucher", d.Auth.OptionalAuth(d.BookingsH.DownloadVoucher))

	router.POST("/api/bookings/:bookingId/documents", d.RateLim.Limit(d.Auth.OptionalAuth(d.BookingsH.AttachDocument)))
	router.DELETE("/api/bookings/:bookingId/documents/:docId", d.Auth.OptionalAuth(d.BookingsH.DetachDocument))
}

func addDependantRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/bookings/:bookingId/dependants", d.Auth.OptionalAuth(d.DepsH.CreateDependant))
	router.GET("/api/bookings/:bookingId/dependants", d.Auth.OptionalAuth(d.DepsH.ListDependants))
	router.PUT("/api/bookings/:bookingId/dependants/:dependantId", d.Auth.OptionalAuth(d.DepsH.UpdateDependant))
	router.DELETE("/api/bookings/:bookingId/dependants/:dependantId", d.Auth.OptionalAuth(d.DepsH.DeleteDependant))
	router.POST("/api/bookings/:bookingId/dependants/:dependantId/documents", d.RateLim.Limit(d.Auth.OptionalAuth(d.DepsH.AttachDocument)))
	router.DELETE("/api/bookings/:bookingId/dependants/:dependantId/documents/:docId", d.Auth.OptionalAuth(d.DepsH.DetachDocument))

	router.POST("/api/profile/dependants", d.Auth.Authenticate(d.DepsH.CreateProfile))
	router.GET("/api/profile/dependants", d.Auth.Authenticate(d.DepsH.ListProfiles))
	router.PUT("/api/profile/dependants/:profileId", d.Auth.Authenticate(d.DepsH.UpdateProfile))
	router.DELETE("/api/profile/dependants/:profileId", d.Auth.Authenticate(d.DepsH.DeleteProfile))
}

func addReviewRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/tours/:tourId/reviews", d.ReviewsH.ListTourReviews)
	router.POST("/api/tours/:tourId/reviews", d.RateLim.Limit(d.Auth.Authenticate(d.ReviewsH.CreateReview)))
	router.PUT("/api/reviews/:reviewId", d.Auth.Authenticate(d.ReviewsH.UpdateReview))
	router.DELETE("/api/reviews/:reviewId", d.Auth.Authenticate(d.ReviewsH.DeleteReview))
}

func addEnquiryRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/contact", d.RateLim.Limit(d.EnquiriesH.CreateEnquiry))
}

func addPaymentRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/payments/intent", d.Auth.OptionalAuth(d.PaymentsH.Idempotent(d.PaymentsH.CreateIntent)))
	router.GET("/api/payments/intent/:intentId", d.Auth.OptionalAuth(d.PaymentsH.GetIntent))
	router.POST("/api/payments/webhook", d.PaymentsH.Webhook)
}

func addAdminRoutes(router *httprouter.Router, d Deps) {
	adminOnly := d.Auth.RequireAdmin

	router.GET("/api/admin/tours", adminOnly(d.ToursH.AdminListTours))
	router.GET("/api/admin/bookings", adminOnly(d.BookingsH.AdminListBookings))
	router.PUT("/api/admin/bookings/:bookingId/status", adminOnly(d.BookingsH.UpdateBookingStatus))
	router.PUT("/api/admin/bookings/:bookingId/application", adminOnly(d.BookingsH.UpdateApplicationStatus))
	router.PUT("/api/admin/dependants/:dependantId/application", adminOnly(d.DepsH.UpdateApplicationStatus))
	router.PUT("/api/admin/reviews/:reviewId/status", adminOnly(d.ReviewsH.SetReviewStatus))
	router.GET("/api/admin/stats", adminOnly(d.AdminH.Stats))
	router.GET("/api/admin/enquiries", adminOnly(d.EnquiriesH.ListEnquiries))
}
