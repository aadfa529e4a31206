package http

import (
	"net/http"
	"time"

	ucAnalytics "disclosure-intake/internal/usecase/analytics"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandler struct{ uc *ucAnalytics.Usecase }

func NewAnalyticsHandler(uc *ucAnalytics.Usecase) *AnalyticsHandler { return &AnalyticsHandler{uc: uc} }

type recordEventReq struct {
	EventType        string         `json:"eventType"        validate:"required,max=64"`
	SessionID        string         `json:"sessionId"`
	Timestamp        *time.Time     `json:"timestamp"`
	ScreenResolution string         `json:"screenResolution" validate:"max=32"`
	Step             string         `json:"step"             validate:"max=64"`
	DurationMS       int64          `json:"durationMs"       validate:"gte=0"`
	Referrer         string         `json:"referrer"         validate:"max=2048"`
	Data             map[string]any `json:"data"`
}

func (h *AnalyticsHandler) Record(c echo.Context) error {
	var req recordEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	in := ucAnalytics.RecordInput{
		EventType:        req.EventType,
		SessionID:        sessionID(c, req.SessionID),
		ScreenResolution: req.ScreenResolution,
		Step:             req.Step,
		DurationMS:       req.DurationMS,
		Referrer:         req.Referrer,
		Data:             req.Data,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}
	dto, err := h.uc.Record(c.Request().Context(), in, clientMeta(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
