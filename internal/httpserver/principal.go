package httpserver

import (
	"github.com/Skotchmaster/marine_shop/internal/middleware/auth"
	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var errNoPrincipal error = &service.Error{Kind: service.ErrUnauthorized, Msg: "not authorized"}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(auth.KeyUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, errNoPrincipal
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errNoPrincipal
	}
	return id, nil
}

func isAdmin(c echo.Context) bool {
	v, _ := c.Get(auth.KeyIsAdmin).(bool)
	return v
}

func paramID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, &service.Error{Kind: service.ErrValidation, Msg: "invalid " + name, Err: err}
	}
	return id, nil
}
