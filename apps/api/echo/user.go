package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kasanda/chuo/core"
	"github.com/kasanda/chuo/core/user"
)

type userApi struct {
	svc      *user.Service
	tokenSvc *tokenService
	validate *validator.Validate
}

func registerUserAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	tokenSvc *tokenService,
	svc *user.Service,
	validate *validator.Validate,
) {
	api := userApi{
		svc:      svc,
		tokenSvc: tokenSvc,
		validate: validate,
	}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.GET("/me", api.me, authed...)

	ug := g.Group("/users", authed...)
	ug.GET("", api.query, requireRoles(user.RoleAdmin))
	ug.PATCH("/:id/status", api.updateStatus, requireRoles(user.RoleAdmin))
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrInvalidCredentials:
			return errAuthenticationFailed
		case user.ErrAccountInactive:
			return errAccountDeactivated
		}
		return errors.Wrap(err, "authenticating")
	}

	token, err := api.tokenSvc.generateToken(api.tokenSvc.getUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) updateStatus(ctx echo.Context) error {
	isActive, err := strconv.ParseBool(ctx.QueryParam("is_active"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "is_active", Error: "must be a boolean"})
	}

	if err := api.svc.SetActive(ctx.Request().Context(), ctx.Param("id"), isActive); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "User status updated successfully"})
}
