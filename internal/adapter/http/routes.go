package http

import (
	"github.com/labstack/echo/v4"
)

// Register mounts every route. idem guards the mutating routes; pass nil to skip it.
func Register(e *echo.Echo, h *Handler, subs *SubmissionHandler, events *AnalyticsHandler, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	var guard []echo.MiddlewareFunc
	if idem != nil {
		guard = append(guard, idem)
	}

	s := e.Group("/submissions")
	s.POST("", subs.Create, guard...)
	s.POST("/search", subs.ListByNationalID)
	s.GET("/:submission_id", subs.Get)
	s.POST("/:submission_id/verification", subs.Verify, guard...)
	s.PATCH("/:submission_id/status", subs.UpdateStatus, guard...)
	s.POST("/:submission_id/comments", subs.AddComment, guard...)

	e.POST("/national-ids/validate", subs.ValidateNationalID)
	e.POST("/events", events.Record)
}
