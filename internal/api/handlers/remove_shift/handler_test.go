package remove_shift

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	removeShift "github.com/m04kA/SMC-BarberShop/internal/usecase/remove_shift"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) result(args mock.Arguments) (*removeShift.Result, error) {
	if res, ok := args.Get(0).(*removeShift.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUseCase) Propose(ctx context.Context, req *removeShift.Request) (*removeShift.Result, error) {
	return m.result(m.Called(ctx, req))
}

func (m *mockUseCase) Confirm(ctx context.Context, req *removeShift.ConfirmRequest) (*removeShift.Result, error) {
	return m.result(m.Called(ctx, req))
}

func (m *mockUseCase) Abort(ctx context.Context, req *removeShift.Request) (*removeShift.Result, error) {
	return m.result(m.Called(ctx, req))
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var admin = &domain.Session{UserID: "owner", Role: domain.RoleAdmin}

func newRequest(shiftID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/days/2025-03-10/shifts/"+shiftID+"/removal", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"date": "2025-03-10", "shiftId": shiftID})
	return req.WithContext(middleware.WithSession(req.Context(), admin))
}

func TestPropose_ReturnsConflicts(t *testing.T) {
	id := uuid.New()
	uc := &mockUseCase{}
	uc.On("Propose", mock.Anything, mock.MatchedBy(func(req *removeShift.Request) bool {
		return req.WindowID == id && req.Session == admin && req.Date.Format(domain.DateFormat) == "2025-03-10"
	})).Return(&removeShift.Result{
		State:     removeShift.StateAwaitingConfirmation,
		Window:    &domain.ShiftWindow{ID: id, Start: "09:00", End: "12:00", Category: domain.CategoryRegular},
		Conflicts: []removeShift.Conflict{{BookingID: 7, CustomerName: "Dana", TimeSlot: "10:00"}},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Propose(rec, newRequest(id.String(), ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RemovalResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "awaiting_confirmation", resp.State)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(7), resp.Conflicts[0].BookingID)
	assert.Equal(t, "10:00", resp.Conflicts[0].TimeSlot)
	uc.AssertExpectations(t)
}

func TestConfirm_PassesCascadeList(t *testing.T) {
	id := uuid.New()
	uc := &mockUseCase{}
	uc.On("Confirm", mock.Anything, mock.MatchedBy(func(req *removeShift.ConfirmRequest) bool {
		return req.WindowID == id && assert.ObjectsAreEqual([]int64{7, 9}, req.CascadeCancel)
	})).Return(&removeShift.Result{State: removeShift.StateApplied, Canceled: []int64{7, 9}}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Confirm(rec, newRequest(id.String(), `{"cascadeCancel":[7,9]}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RemovalResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "applied", resp.State)
	assert.Equal(t, []int64{7, 9}, resp.Canceled)
}

func TestConfirm_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "conflicts changed", err: fmt.Errorf("%w: new booking 11", removeShift.ErrConflictsChanged), want: http.StatusConflict},
		{name: "not found", err: removeShift.ErrShiftNotFound, want: http.StatusNotFound},
		{name: "forbidden", err: removeShift.ErrForbidden, want: http.StatusForbidden},
		{name: "rolled back", err: fmt.Errorf("%w: sms enqueue", removeShift.ErrRemovalFailed), want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Confirm", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Confirm(rec, newRequest(uuid.NewString(), `{"cascadeCancel":[1]}`))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAbort_InvalidShiftID(t *testing.T) {
	uc := &mockUseCase{}

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Abort(rec, newRequest("not-a-uuid", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Abort", mock.Anything, mock.Anything)
}
