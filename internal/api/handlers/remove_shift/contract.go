package remove_shift

import (
	"context"

	removeShift "github.com/m04kA/SMC-BarberShop/internal/usecase/remove_shift"
)

type RemoveShiftUseCase interface {
	Propose(ctx context.Context, req *removeShift.Request) (*removeShift.Result, error)
	Confirm(ctx context.Context, req *removeShift.ConfirmRequest) (*removeShift.Result, error)
	Abort(ctx context.Context, req *removeShift.Request) (*removeShift.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
