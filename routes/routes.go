package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/igRoy3/SmartWasteManagement/configs"
	"github.com/igRoy3/SmartWasteManagement/controllers"
	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/middlewares"
	"github.com/igRoy3/SmartWasteManagement/ws"
)

type Controllers struct {
	Auth      *controllers.AuthController
	Citizen   *controllers.CitizenController
	Collector *controllers.CollectorController
	Admin     *controllers.AdminController
	Hub       *ws.Hub
}

// Register wires every HTTP and WebSocket route onto the engine.
func Register(r *gin.Engine, cfg *configs.Config, ctl Controllers) {
	r.Static("/uploads", "./"+cfg.UploadDir)

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)

		me := auth.Group("", middlewares.AuthMiddleware(cfg.JWTSecret))
		{
			me.GET("/profile", ctl.Auth.Profile)
			me.PATCH("/profile", ctl.Auth.UpdateProfile)
			me.POST("/change-password", ctl.Auth.ChangePassword)
			me.POST("/fcm-token", ctl.Auth.RegisterFCMToken)
		}
	}

	citizen := r.Group("/citizen", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleCitizen))
	{
		citizen.POST("/reports", ctl.Citizen.CreateReport)
		citizen.GET("/reports", ctl.Citizen.MyReports)
		citizen.GET("/reports/:id", ctl.Citizen.ReportDetail)
		citizen.POST("/reports/:id/comments", ctl.Citizen.AddComment)
		citizen.GET("/reports/:id/comments", ctl.Citizen.ListComments)
	}

	collector := r.Group("/collector", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleCollector))
	{
		collector.GET("/tasks", ctl.Collector.MyTasks)
		collector.GET("/tasks/:id", ctl.Collector.TaskDetail)
		collector.POST("/tasks/:id/status", ctl.Collector.UpdateStatus)
		collector.GET("/assignments", ctl.Collector.Assignments)
	}

	admin := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleAdmin))
	{
		admin.GET("/reports", ctl.Admin.ListReports)
		admin.GET("/reports/:id", ctl.Admin.ReportDetail)
		admin.POST("/reports/:id/assign", ctl.Admin.AssignCollector)
		admin.POST("/reports/:id/reject", ctl.Admin.RejectReport)
		admin.GET("/dashboard", ctl.Admin.Dashboard)
		admin.GET("/analytics", ctl.Admin.Analytics)
		admin.GET("/map", ctl.Admin.MapData)
		admin.GET("/collectors", ctl.Admin.ListCollectors)
		admin.GET("/tasks", ctl.Admin.ListTasks)
	}

	wsGroup := r.Group("/ws", middlewares.WSAuthMiddleware(cfg.JWTSecret))
	{
		wsGroup.GET("/updates", ctl.Hub.HandleUpdates)
		wsGroup.GET("/dashboard", ctl.Hub.HandleDashboard)
	}
}
