package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/hawtsauce/gatherly-api/docs"
	v1 "github.com/hawtsauce/gatherly-api/internal/api/handler/v1"
	"github.com/hawtsauce/gatherly-api/internal/api/middleware"
	"github.com/hawtsauce/gatherly-api/internal/config"
	"github.com/hawtsauce/gatherly-api/internal/repository"
	"github.com/hawtsauce/gatherly-api/internal/repository/dao"
	"github.com/hawtsauce/gatherly-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	ticketHandler := s.initTicketHandler(db)
	registrationHandler := s.initRegistrationHandler(db)
	analyticsHandler := s.initAnalyticsHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, ticketHandler, registrationHandler, analyticsHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewEventHandler(svc, uSvc)

	return handler
}

func (s *Server) initTicketHandler(db *gorm.DB) *v1.TicketHandler {
	ticketDAO := dao.NewTicketTypeDAO(db)
	repo := repository.NewTicketTypeRepository(ticketDAO)
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewTicketService(repo, eventRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewTicketHandler(svc, uSvc)

	return handler
}

func (s *Server) initRegistrationHandler(db *gorm.DB) *v1.RegistrationHandler {
	registrationDAO := dao.NewRegistrationDAO(db)
	repo := repository.NewRegistrationRepository(registrationDAO)
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	ticketRepo := repository.NewTicketTypeRepository(dao.NewTicketTypeDAO(db))
	svc := service.NewRegistrationService(repo, eventRepo, ticketRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewRegistrationHandler(svc, uSvc)

	return handler
}

func (s *Server) initAnalyticsHandler(db *gorm.DB) *v1.AnalyticsHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	regRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	ticketRepo := repository.NewTicketTypeRepository(dao.NewTicketTypeDAO(db))
	svc := service.NewAnalyticsService(eventRepo, regRepo, ticketRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewAnalyticsHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	ticketHandler *v1.TicketHandler,
	registrationHandler *v1.RegistrationHandler,
	analyticsHandler *v1.AnalyticsHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Browsing events and their ticket types needs no account.
	public := s.Router.Group(basePath)
	{
		public.GET("/events", eventHandler.HandleListUpcomingEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
		public.GET("/events/:eventID/ticket-types", ticketHandler.HandleListTicketTypes)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/me", userHandler.HandleGetCurrentUser)

		authed.GET("/events/mine", eventHandler.HandleListMyEvents)
		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		authed.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)

		authed.POST("/events/:eventID/ticket-types", ticketHandler.HandleCreateTicketType)
		authed.PUT("/ticket-types/:ticketTypeID", ticketHandler.HandleUpdateTicketType)
		authed.DELETE("/ticket-types/:ticketTypeID", ticketHandler.HandleDeleteTicketType)

		authed.POST("/events/:eventID/registrations", registrationHandler.HandleRegister)
		authed.GET("/events/:eventID/registrations", registrationHandler.HandleListEventRegistrations)
		authed.GET("/events/:eventID/registrations/export", registrationHandler.HandleExportEventRegistrations)
		authed.GET("/registrations/mine", registrationHandler.HandleListMyRegistrations)
		authed.DELETE("/registrations/:registrationID", registrationHandler.HandleCancelRegistration)

		authed.GET("/analytics/stats", analyticsHandler.HandleOrganizerStats)
		authed.GET("/analytics/events", analyticsHandler.HandleEventStats)
		authed.GET("/analytics/daily", analyticsHandler.HandleDailyRegistrations)
		authed.GET("/analytics/tickets", analyticsHandler.HandleTicketStats)
		authed.GET("/analytics/attendees", analyticsHandler.HandleAttendeeInsights)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Gatherly API"
	docs.SwaggerInfo.Description = "Event registration and ticketing API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
