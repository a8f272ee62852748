package handler

import (
	"net/http"

	"choir-attendance/internal/middleware"
	"choir-attendance/internal/model"
	"choir-attendance/internal/service"
	"choir-attendance/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Auth       *service.AuthService
	Members    *service.MemberService
	Attendance *service.AttendanceService
	Imports    *service.ImportService
	Teams      *service.TeamService
	Stats      *service.StatsService
	Export     *service.ExportService
	Broker     *store.Broker
}

func NewRouter(svc Services, tokens *middleware.Tokens, corsOrigins []string) *gin.Engine {
	authH := NewAuthHandler(svc.Auth, svc.Members, tokens)
	memberH := NewMemberHandler(svc.Members)
	eventH := NewEventHandler(svc.Attendance)
	importH := NewImportHandler(svc.Imports)
	teamH := NewTeamHandler(svc.Teams)
	statsH := NewStatsHandler(svc.Stats)
	reportH := NewReportHandler(svc.Stats, svc.Teams, svc.Export)
	streamH := NewStreamHandler(svc.Broker)

	r := gin.New()
	r.Use(gin.Recovery())
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-New-Token", "Content-Disposition"},
		AllowCredentials: corsOrigins[0] != "*",
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/api/login", authH.Login)

	api := r.Group("/api", tokens.JWTAuth())
	api.GET("/me", authH.Me)
	api.PUT("/me", authH.UpdateProfile)
	api.PUT("/me/password", authH.ChangePassword)
	api.GET("/members", memberH.List)
	api.GET("/members/:id", memberH.Get)
	api.GET("/events", eventH.List)
	api.GET("/events/:id", eventH.Get)
	api.GET("/teams", teamH.List)
	api.GET("/celebrations", memberH.Celebrations)
	api.GET("/stats/me", statsH.Me)
	api.GET("/stats/years", statsH.Years)
	api.GET("/stats/months", statsH.Months)
	api.GET("/reports/me", reportH.Me)
	api.GET("/reports/teams", reportH.Teams)
	api.GET("/stream", streamH.Stream)

	admin := api.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.POST("/members", memberH.Create)
	admin.PUT("/members/:id", memberH.Update)
	admin.DELETE("/members/:id", memberH.Delete)
	admin.POST("/events", eventH.Create)
	admin.PUT("/events/:id", eventH.Update)
	admin.DELETE("/events/:id", eventH.Delete)
	admin.POST("/events/bulk-mark", eventH.BulkMark)
	admin.POST("/import/preview", importH.Preview)
	admin.POST("/import/confirm", importH.Confirm)
	admin.POST("/teams", teamH.Create)
	admin.PUT("/teams/:id", teamH.Update)
	admin.DELETE("/teams/:id", teamH.Delete)
	admin.GET("/teams/unassigned", teamH.Unassigned)
	admin.GET("/stats/members/:id", statsH.Member)
	admin.GET("/stats/cohort", statsH.Cohort)
	admin.GET("/stats/activity", statsH.Activity)
	admin.GET("/reminder", statsH.Reminder)
	admin.GET("/reports/members/:id", reportH.Member)
	admin.GET("/reports/cohort", reportH.Cohort)
	admin.GET("/reports/events/:id", reportH.Event)

	return r
}
