package stream_bookings

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	listBookings "github.com/m04kA/SMC-BarberShop/internal/api/handlers/list_bookings"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings/models"
)

const (
	msgNotAuthenticated = "требуется авторизация"
	msgInvalidQuery     = "некорректные параметры запроса"

	eventBookings    = "bookings"
	subscriberBuffer = 1
	defaultHeartbeat = 25 * time.Second
)

type Handler struct {
	service   BookingService
	changes   ChangeSource
	logger    Logger
	heartbeat time.Duration
}

func NewHandler(service BookingService, changes ChangeSource, logger Logger) *Handler {
	return &Handler{
		service:   service,
		changes:   changes,
		logger:    logger,
		heartbeat: defaultHeartbeat,
	}
}

// Handle GET /api/v1/bookings/stream
// Server-Sent Events: сразу отправляет снимок, затем новый снимок после каждого
// изменения бронирований. Фильтр тот же, что у GET /bookings.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	req, err := listBookings.ParseRequest(r, session)
	if err != nil {
		h.logger.Warn("GET /bookings/stream - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	// Проверяем фильтр до открытия потока, чтобы вернуть обычную ошибку
	snapshot, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		h.logger.Error("GET /bookings/stream - Failed to load snapshot: user_id=%s, error=%v", session.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	rc := http.NewResponseController(w)

	changes, unsubscribe := h.changes.Subscribe(subscriberBuffer)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := h.send(w, rc, snapshot); err != nil {
		h.logger.Warn("GET /bookings/stream - Failed to write snapshot: %v", err)
		return
	}

	h.logger.Info("GET /bookings/stream - Subscribed: user_id=%s, role=%s", session.UserID, session.Role)

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("GET /bookings/stream - Unsubscribed: user_id=%s", session.UserID)
			return

		case _, open := <-changes:
			if !open {
				return
			}
			snapshot, err := h.service.List(r.Context(), req)
			if err != nil {
				h.logger.Error("GET /bookings/stream - Failed to reload snapshot: user_id=%s, error=%v", session.UserID, err)
				return
			}
			if err := h.send(w, rc, snapshot); err != nil {
				return
			}

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(w http.ResponseWriter, rc *http.ResponseController, snapshot *models.BookingListResponse) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventBookings, data); err != nil {
		return err
	}
	return rc.Flush()
}
