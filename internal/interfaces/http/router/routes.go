package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/interfaces/http/handler"
	"github.com/hospitality/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler mounted by Routes
type Handlers struct {
	Auth          *handler.AuthHandler
	Tenant        *handler.TenantHandler
	User          *handler.UserHandler
	Role          *handler.RoleHandler
	Property      *handler.PropertyHandler
	Room          *handler.RoomHandler
	Booking       *handler.BookingHandler
	Staff         *handler.StaffHandler
	Lead          *handler.LeadHandler
	CMS           *handler.CMSHandler
	Invoice       *handler.InvoiceHandler
	Communication *handler.CommunicationHandler
	Concierge     *handler.ConciergeHandler
	Analytics     *handler.AnalyticsHandler
	Public        *handler.PublicHandler
}

// Guards are the middleware chains placed in front of each route family
type Guards struct {
	// Authenticated runs before every route that needs a logged-in user,
	// normally JWT authentication followed by TenantContext
	Authenticated []gin.HandlerFunc
	// Public runs before the marketing-site routes, normally a rate limit
	// followed by PublicTenant
	Public []gin.HandlerFunc
	// Credentials runs before login and token refresh
	Credentials []gin.HandlerFunc
}

func can(resource identity.Resource, action identity.Action) gin.HandlerFunc {
	return middleware.RequirePermission(identity.Permission{Resource: resource, Action: action}.Code())
}

// Routes builds the domain groups of the v1 API
func Routes(h Handlers, g Guards) []RouteRegistrar {
	const (
		read   = identity.ActionRead
		create = identity.ActionCreate
		update = identity.ActionUpdate
		remove = identity.ActionDelete
		manage = identity.ActionManage
	)

	auth := NewDomainGroup("auth", "/auth")
	login := auth.Group("login", "").Use(g.Credentials...)
	login.POST("/login", h.Auth.Login)
	login.POST("/refresh", h.Auth.RefreshToken)
	session := auth.Group("session", "").Use(g.Authenticated...)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.GetCurrentUser)
	session.PUT("/password", h.Auth.ChangePassword)

	public := NewDomainGroup("public", "/public/:tenant_slug").Use(g.Public...)
	public.GET("/properties", h.Public.ListProperties)
	public.GET("/properties/:slug", h.Public.GetProperty)
	public.GET("/pages/:slug", h.Public.GetPage)
	public.POST("/leads", h.Public.CaptureLead)
	public.POST("/concierge/chat", h.Public.Chat)

	// Everything below requires a token
	private := NewDomainGroup("private", "").Use(g.Authenticated...)

	tenants := private.Group("tenants", "/tenants").Use(can(identity.ResourceTenant, manage))
	tenants.POST("", h.Tenant.Create)
	tenants.GET("", h.Tenant.List)
	tenants.GET("/stats", h.Tenant.GetStats)
	tenants.GET("/:id", h.Tenant.GetByID)
	tenants.PUT("/:id", h.Tenant.Update)
	tenants.DELETE("/:id", h.Tenant.Delete)
	tenants.POST("/:id/activate", h.Tenant.Activate)
	tenants.POST("/:id/deactivate", h.Tenant.Deactivate)
	tenants.POST("/:id/suspend", h.Tenant.Suspend)

	users := private.Group("users", "/users")
	users.POST("", can(identity.ResourceUser, create), h.User.Create)
	users.GET("", can(identity.ResourceUser, read), h.User.List)
	users.GET("/:id", can(identity.ResourceUser, read), h.User.GetByID)
	users.PUT("/:id", can(identity.ResourceUser, update), h.User.Update)
	users.PUT("/:id/roles", can(identity.ResourceUser, manage), h.User.AssignRoles)
	users.POST("/:id/activate", can(identity.ResourceUser, update), h.User.Activate)
	users.POST("/:id/deactivate", can(identity.ResourceUser, update), h.User.Deactivate)
	users.DELETE("/:id", can(identity.ResourceUser, remove), h.User.Delete)

	rbac := private.Group("rbac", "/rbac").Use(can(identity.ResourceUser, read))
	rbac.GET("/roles", h.Role.ListRoles)
	rbac.GET("/permissions", h.Role.ListPermissions)
	rbac.GET("/effective", h.Role.EffectivePermissions)

	properties := private.Group("properties", "")
	properties.POST("/properties", can(identity.ResourceProperty, create), h.Property.Create)
	properties.GET("/properties", can(identity.ResourceProperty, read), h.Property.List)
	properties.GET("/properties/:id", can(identity.ResourceProperty, read), h.Property.GetByID)
	properties.PUT("/properties/:id", can(identity.ResourceProperty, update), h.Property.Update)
	properties.DELETE("/properties/:id", can(identity.ResourceProperty, remove), h.Property.Delete)
	properties.POST("/properties/:id/activate", can(identity.ResourceProperty, update), h.Property.Activate)
	properties.POST("/properties/:id/deactivate", can(identity.ResourceProperty, update), h.Property.Deactivate)
	properties.POST("/properties/:id/archive", can(identity.ResourceProperty, update), h.Property.Archive)
	properties.POST("/properties/:id/cover", can(identity.ResourceProperty, update), h.Property.UploadCover)
	properties.POST("/hotels", can(identity.ResourceProperty, create), h.Property.CreateHotel)
	properties.GET("/hotels", can(identity.ResourceProperty, read), h.Property.ListHotels)
	properties.GET("/restaurants", can(identity.ResourceProperty, read), h.Property.ListRestaurants)
	properties.GET("/properties/:id/availability", can(identity.ResourceBooking, read), h.Booking.Availability)

	rooms := private.Group("rooms", "")
	rooms.POST("/properties/:id/rooms", can(identity.ResourceRoom, create), h.Room.Create)
	rooms.GET("/properties/:id/rooms", can(identity.ResourceRoom, read), h.Room.ListByProperty)
	rooms.GET("/rooms/:id", can(identity.ResourceRoom, read), h.Room.GetByID)
	rooms.PUT("/rooms/:id", can(identity.ResourceRoom, update), h.Room.Update)
	rooms.POST("/rooms/:id/status", can(identity.ResourceRoom, update), h.Room.SetStatus)
	rooms.DELETE("/rooms/:id", can(identity.ResourceRoom, remove), h.Room.Delete)

	bookings := private.Group("bookings", "/bookings")
	bookings.POST("", can(identity.ResourceBooking, create), h.Booking.Create)
	bookings.GET("", can(identity.ResourceBooking, read), h.Booking.List)
	bookings.GET("/reference/:reference", can(identity.ResourceBooking, read), h.Booking.GetByReference)
	bookings.GET("/:id", can(identity.ResourceBooking, read), h.Booking.GetByID)
	bookings.PUT("/:id", can(identity.ResourceBooking, update), h.Booking.Update)
	bookings.DELETE("/:id", can(identity.ResourceBooking, remove), h.Booking.Delete)
	bookings.POST("/:id/confirm", can(identity.ResourceBooking, update), h.Booking.Confirm)
	bookings.POST("/:id/check-in", can(identity.ResourceBooking, update), h.Booking.CheckIn)
	bookings.POST("/:id/check-out", can(identity.ResourceBooking, update), h.Booking.CheckOut)
	bookings.POST("/:id/cancel", can(identity.ResourceBooking, update), h.Booking.Cancel)
	bookings.POST("/:id/no-show", can(identity.ResourceBooking, update), h.Booking.NoShow)

	staff := private.Group("staff", "/staff")
	staff.POST("", can(identity.ResourceStaff, create), h.Staff.Create)
	staff.GET("", can(identity.ResourceStaff, read), h.Staff.List)
	staff.GET("/:id", can(identity.ResourceStaff, read), h.Staff.GetByID)
	staff.PUT("/:id", can(identity.ResourceStaff, update), h.Staff.Update)
	staff.DELETE("/:id", can(identity.ResourceStaff, remove), h.Staff.Delete)
	staff.POST("/:id/assign", can(identity.ResourceStaff, update), h.Staff.Assign)
	staff.POST("/:id/leave", can(identity.ResourceStaff, update), h.Staff.Leave)
	staff.POST("/:id/reactivate", can(identity.ResourceStaff, update), h.Staff.Reactivate)
	staff.POST("/:id/terminate", can(identity.ResourceStaff, update), h.Staff.Terminate)

	leads := private.Group("leads", "/leads")
	leads.POST("", can(identity.ResourceLead, create), h.Lead.Create)
	leads.GET("", can(identity.ResourceLead, read), h.Lead.List)
	leads.GET("/pipeline", can(identity.ResourceLead, read), h.Lead.Pipeline)
	leads.GET("/:id", can(identity.ResourceLead, read), h.Lead.GetByID)
	leads.PUT("/:id", can(identity.ResourceLead, update), h.Lead.Update)
	leads.DELETE("/:id", can(identity.ResourceLead, remove), h.Lead.Delete)
	leads.POST("/:id/assign", can(identity.ResourceLead, update), h.Lead.Assign)
	leads.POST("/:id/status", can(identity.ResourceLead, update), h.Lead.SetStatus)
	leads.POST("/:id/win", can(identity.ResourceLead, update), h.Lead.Win)
	leads.POST("/:id/lose", can(identity.ResourceLead, update), h.Lead.Lose)

	cms := private.Group("cms", "/cms")
	cms.POST("/pages", can(identity.ResourceCMS, create), h.CMS.CreatePage)
	cms.GET("/pages", can(identity.ResourceCMS, read), h.CMS.ListPages)
	cms.GET("/pages/:id", can(identity.ResourceCMS, read), h.CMS.GetPage)
	cms.PUT("/pages/:id", can(identity.ResourceCMS, update), h.CMS.UpdatePage)
	cms.DELETE("/pages/:id", can(identity.ResourceCMS, remove), h.CMS.DeletePage)
	cms.POST("/pages/:id/publish", can(identity.ResourceCMS, update), h.CMS.PublishPage)
	cms.POST("/pages/:id/unpublish", can(identity.ResourceCMS, update), h.CMS.UnpublishPage)
	cms.POST("/pages/:id/archive", can(identity.ResourceCMS, update), h.CMS.ArchivePage)
	cms.POST("/media", can(identity.ResourceMedia, create), h.CMS.UploadMedia)
	cms.GET("/media", can(identity.ResourceMedia, read), h.CMS.ListMedia)
	cms.DELETE("/media/:id", can(identity.ResourceMedia, remove), h.CMS.DeleteMedia)

	invoices := private.Group("invoices", "/invoices")
	invoices.POST("", can(identity.ResourceInvoice, create), h.Invoice.Create)
	invoices.GET("", can(identity.ResourceInvoice, read), h.Invoice.List)
	invoices.POST("/from-booking", can(identity.ResourceInvoice, create), h.Invoice.CreateFromBooking)
	invoices.POST("/overdue-sweep", can(identity.ResourceInvoice, manage), h.Invoice.SweepOverdue)
	invoices.GET("/:id", can(identity.ResourceInvoice, read), h.Invoice.GetByID)
	invoices.PUT("/:id", can(identity.ResourceInvoice, update), h.Invoice.Update)
	invoices.DELETE("/:id", can(identity.ResourceInvoice, remove), h.Invoice.Delete)
	invoices.POST("/:id/items", can(identity.ResourceInvoice, update), h.Invoice.AddItem)
	invoices.DELETE("/:id/items/:item_id", can(identity.ResourceInvoice, update), h.Invoice.RemoveItem)
	invoices.POST("/:id/issue", can(identity.ResourceInvoice, update), h.Invoice.Issue)
	invoices.POST("/:id/void", can(identity.ResourceInvoice, update), h.Invoice.Void)
	invoices.POST("/:id/payments", can(identity.ResourceInvoice, update), h.Invoice.RecordPayment)
	invoices.POST("/:id/payment-intent", can(identity.ResourceInvoice, update), h.Invoice.CreatePaymentIntent)
	invoices.POST("/:id/payment-intent/confirm", can(identity.ResourceInvoice, update), h.Invoice.ConfirmPayment)
	invoices.POST("/:id/refund", can(identity.ResourceInvoice, manage), h.Invoice.Refund)
	invoices.GET("/:id/pdf", can(identity.ResourceInvoice, read), h.Invoice.PDF)

	comms := private.Group("communication", "/communication")
	comms.POST("", can(identity.ResourceCommunication, create), h.Communication.Execute)
	comms.POST("/email", can(identity.ResourceCommunication, create), h.Communication.SendEmail)
	comms.POST("/whatsapp", can(identity.ResourceCommunication, create), h.Communication.SendWhatsApp)
	comms.GET("/messages", can(identity.ResourceCommunication, read), h.Communication.ListMessages)
	comms.GET("/messages/:id", can(identity.ResourceCommunication, read), h.Communication.GetMessage)
	comms.POST("/messages/:id/retry", can(identity.ResourceCommunication, create), h.Communication.RetryMessage)
	comms.POST("/events", can(identity.ResourceCommunication, create), h.Communication.CreateEvent)
	comms.GET("/events", can(identity.ResourceCommunication, read), h.Communication.ListEvents)
	comms.DELETE("/events/:id", can(identity.ResourceCommunication, remove), h.Communication.CancelEvent)
	comms.GET("/calendar.ics", can(identity.ResourceCommunication, read), h.Communication.CalendarFeed)

	concierge := private.Group("concierge", "/concierge/conversations")
	concierge.POST("", can(identity.ResourceConcierge, create), h.Concierge.Start)
	concierge.GET("", can(identity.ResourceConcierge, read), h.Concierge.List)
	concierge.GET("/:id", can(identity.ResourceConcierge, read), h.Concierge.GetByID)
	concierge.POST("/:id/messages", can(identity.ResourceConcierge, create), h.Concierge.SendMessage)
	concierge.POST("/:id/close", can(identity.ResourceConcierge, update), h.Concierge.Close)

	analytics := private.Group("analytics", "").Use(can(identity.ResourceAnalytics, read))
	analytics.GET("/analytics/dashboard", h.Analytics.Dashboard)
	analytics.GET("/demo/analytics", h.Analytics.DemoAnalytics)
	analytics.GET("/demo/occupancy", h.Analytics.DemoOccupancy)
	analytics.GET("/demo/revenue", h.Analytics.DemoRevenue)

	return []RouteRegistrar{auth, public, private}
}
