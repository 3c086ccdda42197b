package controller

import (
	"strconv"

	"github.com/Mohanapriya2828/schoolapp-ado/internal/dto"
	custommw "github.com/Mohanapriya2828/schoolapp-ado/internal/middleware"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/service"
	pkgdto "github.com/Mohanapriya2828/schoolapp-ado/pkg/dto"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/errs"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	service service.UserService
}

func CreateController(e *echo.Group, service service.UserService, jwtSecret string) {
	uc := Controller{
		service: service,
	}

	auth := custommw.JWTAuth(jwtSecret)
	teacherOnly := custommw.RequireRole("Teacher")

	e.POST("/users/register", uc.AddUser)
	e.POST("/users/login", uc.Login)
	e.GET("/users", uc.GetUsers, auth, teacherOnly)
	e.GET("/users/:id", uc.GetUser, auth)
	e.PUT("/users/:id", uc.UpdateUser, auth, teacherOnly)
	e.DELETE("/users/:id", uc.DeleteUser, auth, teacherOnly)
}

func (c *Controller) AddUser(e echo.Context) error {
	payload := dto.RegisterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.AddUser(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	respPayload, err := c.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", respPayload)
}

func (c *Controller) GetUser(e echo.Context) error {
	idInt, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.GetUserByID(e.Request().Context(), idInt)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetUsers(e echo.Context) error {
	payload := pkgdto.Filter{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
	}

	resp, err := c.service.GetUsers(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) UpdateUser(e echo.Context) error {
	idInt, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload := dto.UpdateUserRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUser").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload.ID = idInt
	err = c.service.UpdateUser(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "User updated successfully", nil)
}

func (c *Controller) DeleteUser(e echo.Context) error {
	idInt, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	err = c.service.DeleteUser(e.Request().Context(), idInt)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "User deleted successfully", nil)
}
