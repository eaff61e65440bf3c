package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/logger"
	"github.com/aditwicaksono/warung-pos-api/services"
)

// BotCommandRequest is the payload posted by the messaging gateway
type BotCommandRequest struct {
	Command        string `json:"command" binding:"required"`
	ProductName    string `json:"product_name"`
	Quantity       *int   `json:"quantity" binding:"omitempty,gt=0"`
	UserIdentifier string `json:"user_identifier"`
}

// ProcessBotCommand handles POST /api/v1/bot/command. The gateway
// authenticates with an API key rather than a user token, so business
// failures come back as 200 with success=false and a reply message the
// gateway can forward verbatim.
func ProcessBotCommand(c *gin.Context) {
	var req BotCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := services.ProcessBotCommand(config.GetDB(), services.BotCommandInput{
		Command:        req.Command,
		ProductName:    req.ProductName,
		Quantity:       req.Quantity,
		UserIdentifier: req.UserIdentifier,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.FromContext(c).Info("bot command processed",
		zap.String("command", req.Command),
		zap.Bool("handled", result.Success))

	c.JSON(http.StatusOK, result)
}
