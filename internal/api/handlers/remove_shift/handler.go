package remove_shift

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	removeShift "github.com/m04kA/SMC-BarberShop/internal/usecase/remove_shift"
)

const (
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotAuthenticated   = "требуется авторизация"
	msgForbidden          = "доступно только администратору"
	msgNotFound           = "смена не найдена"
	msgConflictsChanged   = "список затронутых записей изменился, проверьте его заново"
	msgRemovalFailed      = "не удалось удалить смену, изменения отменены"
)

type Handler struct {
	useCase RemoveShiftUseCase
	logger  Logger
}

func NewHandler(useCase RemoveShiftUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Propose POST /api/v1/admin/days/{date}/shifts/{shiftId}/removal
// Без конфликтов смена удаляется сразу (state=applied),
// иначе возвращается список конфликтов (state=awaiting_confirmation)
func (h *Handler) Propose(w http.ResponseWriter, r *http.Request) {
	const op = "POST /admin/days/{date}/shifts/{id}/removal"

	req, ok := h.parse(w, r, op)
	if !ok {
		return
	}

	result, err := h.useCase.Propose(r.Context(), req)
	if err != nil {
		h.respondError(w, op, err)
		return
	}

	h.logger.Info("%s - Proposed: shift_id=%s, state=%s, conflicts=%d", op, req.WindowID, result.State, len(result.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResult(result))
}

// Confirm POST /api/v1/admin/days/{date}/shifts/{shiftId}/removal/confirm
// Удаляет смену и отменяет подтверждённые бронирования одной транзакцией
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	const op = "POST /admin/days/{date}/shifts/{id}/removal/confirm"

	req, ok := h.parse(w, r, op)
	if !ok {
		return
	}

	var body ConfirmRequest
	if err := handlers.DecodeJSON(r, &body); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Confirm(r.Context(), &removeShift.ConfirmRequest{
		Request:       *req,
		CascadeCancel: body.CascadeCancel,
	})
	if err != nil {
		h.respondError(w, op, err)
		return
	}

	h.logger.Info("%s - Applied: shift_id=%s, canceled=%v", op, req.WindowID, result.Canceled)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResult(result))
}

// Abort POST /api/v1/admin/days/{date}/shifts/{shiftId}/removal/abort
// Ничего не меняет
func (h *Handler) Abort(w http.ResponseWriter, r *http.Request) {
	const op = "POST /admin/days/{date}/shifts/{id}/removal/abort"

	req, ok := h.parse(w, r, op)
	if !ok {
		return
	}

	result, err := h.useCase.Abort(r.Context(), req)
	if err != nil {
		h.respondError(w, op, err)
		return
	}

	h.logger.Info("%s - Aborted: shift_id=%s", op, req.WindowID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResult(result))
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request, op string) (*removeShift.Request, bool) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return nil, false
	}

	windowID, err := handlers.PathUUID(r, "shiftId")
	if err != nil {
		h.logger.Warn("%s - Invalid shift ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return nil, false
	}

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return nil, false
	}

	return &removeShift.Request{
		Session:  session,
		Date:     date,
		WindowID: windowID,
	}, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, removeShift.ErrForbidden):
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, removeShift.ErrShiftNotFound):
		h.logger.Warn("%s - Shift not found: %v", op, err)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, removeShift.ErrConflictsChanged):
		h.logger.Warn("%s - Conflicts changed: %v", op, err)
		handlers.RespondConflict(w, msgConflictsChanged)

	case errors.Is(err, removeShift.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	case errors.Is(err, removeShift.ErrRemovalFailed):
		h.logger.Error("%s - Removal rolled back: %v", op, err)
		handlers.RespondServiceUnavailable(w)

	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
