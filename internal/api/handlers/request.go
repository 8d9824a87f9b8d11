package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// maxBodySize ограничение размера тела запроса
const maxBodySize = 1 << 20

var (
	// ErrEmptyBody возвращается, когда тело запроса пустое
	ErrEmptyBody = errors.New("handlers: empty request body")

	// ErrInvalidBody возвращается, когда тело не является корректным JSON
	ErrInvalidBody = errors.New("handlers: invalid request body")

	// ErrValidation возвращается, когда тело не прошло проверку тегов validate
	ErrValidation = errors.New("handlers: validation failed")

	// ErrInvalidParam возвращается для некорректного параметра пути или запроса
	ErrInvalidParam = errors.New("handlers: invalid parameter")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON декодирует тело запроса в dst и проверяет его по тегам validate
// Неизвестные поля запрещены
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return nil
}

// PathInt64 извлекает числовой параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return id, nil
}

// PathUUID извлекает UUID из параметра пути
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return id, nil
}

// PathDate извлекает дату формата YYYY-MM-DD из параметра пути
func PathDate(r *http.Request, name string) (time.Time, error) {
	return parseDate(name, mux.Vars(r)[name])
}

// QueryDate извлекает обязательную дату из query параметра
func QueryDate(r *http.Request, name string) (time.Time, error) {
	return parseDate(name, r.URL.Query().Get(name))
}

// OptionalQueryDate извлекает необязательную дату; nil, если параметр не передан
func OptionalQueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	date, err := parseDate(name, raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// OptionalQueryString возвращает значение query параметра или nil
func OptionalQueryString(r *http.Request, name string) *string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// QueryBool возвращает true для "true" или "1"
func QueryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func parseDate(name, raw string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return date, nil
}
