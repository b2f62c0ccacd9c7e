package handler

import (
	"event-checkin/internal/service"

	"github.com/gin-gonic/gin"
)

// RouterDeps 組裝 HTTP 路由所需的 service 與設定
type RouterDeps struct {
	Registration     service.RegistrationService
	CheckIn          service.CheckInService
	Admin            service.AdminService
	Health           Pinger
	CORSOrigins      []string
	VolunteerKeyHash string
	AdminKeyHash     string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), RequestID(), RequestLogger(), CORS(deps.CORSOrigins))

	volunteerGate := AccessGate("volunteer", deps.VolunteerKeyHash)
	adminGate := AccessGate("admin", deps.AdminKeyHash)

	NewHealthHandler(deps.Health).RegisterRoutes(r)
	NewTicketHandler(deps.Registration, deps.Admin).RegisterRoutes(r, adminGate)
	NewCheckInHandler(deps.CheckIn).RegisterRoutes(r, volunteerGate)
	NewAdminHandler(deps.Admin).RegisterRoutes(r, adminGate)

	return r
}
