package handler

import (
	"resto_manager/helper"
	"resto_manager/model"
	"resto_manager/service"
	"resto_manager/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	svc      *service.Service
	validate = validator.New()
)

// InitService wires the lifecycle service the handlers delegate to
func InitService(s *service.Service) {
	svc = s
}

func currentUser(c *fiber.Ctx) model.TokenClaim {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return model.TokenClaim{}
	}
	return helper.ClaimFromToken(token)
}

// serviceError translates a service failure into the JSON error envelope
func serviceError(c *fiber.Ctx, err error) error {
	return utils.ErrorResponse(c, service.HTTPStatus(err), err.Error(), nil)
}
