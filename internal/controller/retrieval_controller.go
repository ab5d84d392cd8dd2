package controller

import (
	"strconv"

	"ai-retrieval-be/internal/dto"
	"ai-retrieval-be/internal/pkg/serverutils"
	"ai-retrieval-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRetrievalController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	Conversation(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type retrievalController struct {
	retrievalService service.IRetrievalService
}

func NewRetrievalController(retrievalService service.IRetrievalService) IRetrievalController {
	return &retrievalController{
		retrievalService: retrievalService,
	}
}

func (c *retrievalController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/retrieval/v1")
	h.Post("query", c.Query)
	h.Get("session/:user_id", c.Conversation)
	h.Delete("session/:user_id", c.ClearSession)
	h.Get("logs/:user_id", c.Logs)
}

func (c *retrievalController) Query(ctx *fiber.Ctx) error {
	var req dto.RetrieveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.retrievalService.Retrieve(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success retrieve", res))
}

func (c *retrievalController) Conversation(ctx *fiber.Ctx) error {
	userId := ctx.Params("user_id")

	res, err := c.retrievalService.Conversation(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *retrievalController) ClearSession(ctx *fiber.Ctx) error {
	userId := ctx.Params("user_id")

	res, err := c.retrievalService.ClearSession(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear session", res))
}

func (c *retrievalController) Logs(ctx *fiber.Ctx) error {
	userId := ctx.Params("user_id")

	limit, err := strconv.Atoi(ctx.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	res, err := c.retrievalService.Logs(ctx.Context(), userId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show retrieval logs", res))
}
