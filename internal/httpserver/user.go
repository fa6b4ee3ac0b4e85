package httpserver

import (
	"net/http"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/Skotchmaster/marine_shop/pkg/tokens"
	"github.com/labstack/echo/v4"
)

type UserHTTP struct {
	Svc           *service.UserService
	SecureCookies bool
}

func (h *UserHTTP) setToken(c echo.Context, token string, exp time.Time) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, token, "/", exp, h.SecureCookies))
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "register", err)
	}
	resp, exp, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register", err)
	}

	h.setToken(c, resp.Token, exp)
	l.Info("register_success", "user_id", resp.ID)
	return c.JSON(http.StatusCreated, resp)
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "login", err)
	}
	resp, exp, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login", err)
	}

	h.setToken(c, resp.Token, exp)
	l.Info("login_success", "user_id", resp.ID)
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", h.SecureCookies))
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *UserHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.profile")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "get_profile", err)
	}
	u, err := h.Svc.Profile(ctx, userID)
	if err != nil {
		return fail(l, "get_profile", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_profile")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "update_profile", err)
	}
	var req transport.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_profile", err)
	}
	u, err := h.Svc.UpdateProfile(ctx, userID, req)
	if err != nil {
		return fail(l, "update_profile", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.forgot_password")

	var req transport.ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "forgot_password", err)
	}
	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		return fail(l, "forgot_password", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "reset code sent"})
}

func (h *UserHTTP) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.verify_otp")

	var req transport.VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "verify_otp", err)
	}
	if err := h.Svc.VerifyOTP(ctx, req.Email, req.OTP); err != nil {
		return fail(l, "verify_otp", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "code verified"})
}

func (h *UserHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.reset_password")

	var req transport.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "reset_password", err)
	}
	if err := h.Svc.ResetPassword(ctx, req.Email, req.OTP, req.NewPassword); err != nil {
		return fail(l, "reset_password", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password reset"})
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return fail(l, "list_users", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "get_user", err)
	}
	u, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return fail(l, "get_user", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "update_user", err)
	}
	var req transport.AdminUpdateUserRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_user", err)
	}
	u, err := h.Svc.UpdateUser(ctx, id, req)
	if err != nil {
		return fail(l, "update_user", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "delete_user", err)
	}
	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		return fail(l, "delete_user", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user removed"})
}
