package server

import (
	"context"
	"net/http"
	"time"

	"github.com/axel-paillaud/ticketsync/internal/config"
	"github.com/axel-paillaud/ticketsync/internal/observability"
	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	tedomain "github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	organizationSvc orgdomain.Service
	userSvc         userdomain.Service
	ticketSvc       ticketdomain.Service
	timeEntrySvc    tedomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	OrganizationSvc orgdomain.Service
	UserSvc         userdomain.Service
	TicketSvc       ticketdomain.Service
	TimeEntrySvc    tedomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		organizationSvc: p.OrganizationSvc,
		userSvc:         p.UserSvc,
		ticketSvc:       p.TicketSvc,
		timeEntrySvc:    p.TimeEntrySvc,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")

	// Invitation acceptance happens before the user can authenticate.
	api.POST("/invitation/accept", s.AcceptInvitation)

	authed := api.Group("", s.IdentityRequired())

	authed.GET("/profile", s.GetProfile)
	authed.PATCH("/profile", s.UpdateProfile)
	authed.GET("/statuses", s.ListStatuses)
	authed.GET("/priorities", s.ListPriorities)

	admin := authed.Group("", s.AdminRequired())
	admin.GET("/organizations", s.ListOrganizations)
	admin.POST("/organizations", s.CreateOrganization)
	admin.GET("/organizations/:id", s.GetOrganization)
	admin.PATCH("/organizations/:id", s.UpdateOrganization)
	admin.DELETE("/organizations/:id", s.DeleteOrganization)
	admin.GET("/organizations/:id/members", s.ListOrganizationMembers)

	users := authed.Group("/users", s.UserManagerRequired())
	users.POST("", s.CreateUser)
	users.GET("/:id", s.GetUser)
	users.DELETE("/:id", s.DeleteUser)
	users.POST("/:id/resend-invitation", s.ResendInvitation)

	admin.GET("/reports/time-entries", s.TimeEntryReport)

	org := authed.Group("/orgs/:slug", s.OrgContext())
	org.GET("/tickets", s.ListTickets)
	org.POST("/tickets", s.CreateTicket)
	org.GET("/tickets/:id", s.GetTicket)
	org.PATCH("/tickets/:id", s.UpdateTicket)
	org.DELETE("/tickets/:id", s.DeleteTicket)
	org.POST("/tickets/:id/assign", s.AssignTicket)

	org.GET("/tickets/:id/comments", s.ListComments)
	org.POST("/tickets/:id/comments", s.AddComment)
	org.PATCH("/comments/:id", s.UpdateComment)
	org.DELETE("/comments/:id", s.DeleteComment)

	org.GET("/tickets/:id/attachments", s.ListAttachments)
	org.POST("/tickets/:id/attachments", s.AddAttachment)
	org.DELETE("/attachments/:id", s.DeleteAttachment)

	org.GET("/tickets/:id/time-entries", s.ListTimeEntries)
	org.POST("/tickets/:id/time-entries", s.CreateTimeEntry)
	org.PATCH("/time-entries/:id", s.UpdateTimeEntry)
	org.DELETE("/time-entries/:id", s.DeleteTimeEntry)

	org.GET("/reports/monthly", s.MonthlyReport)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
