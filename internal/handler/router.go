package handler

import "github.com/gin-gonic/gin"

// Set bundles the gateway's handlers for route registration.
type Set struct {
	Timetable *TimetableHandler
	Sessions  *SessionHandler
	Reference *ReferenceHandler
	Metrics   *MetricsHandler
}

// Register mounts the API under the given prefix, plus the root-level
// observability endpoints.
func (s Set) Register(r *gin.Engine, prefix string) {
	api := r.Group(prefix)

	api.POST("/timetable/availability", s.Timetable.CheckAvailability)
	api.POST("/timetable/availability/edit", s.Timetable.CheckAvailabilityForEdit)

	api.GET("/classes/:id/activities", s.Timetable.ListByClassDay)
	api.POST("/activities", s.Timetable.Create)
	api.PUT("/activities/:id", s.Timetable.Update)
	api.DELETE("/activities/:id", s.Timetable.Delete)

	api.POST("/sessions", s.Sessions.Create)
	api.DELETE("/sessions/:id", s.Sessions.Delete)

	api.GET("/reference/matieres", s.Reference.Subjects)
	api.GET("/reference/:collection", s.Reference.Collection)

	r.GET("/health", s.Metrics.Health)
	r.GET("/metrics", s.Metrics.Prometheus)
}
