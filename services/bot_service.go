package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/aditwicaksono/warung-pos-api/models"
)

// Bot commands
const (
	BotCommandCheckStock = "check_stock"
	BotCommandSell       = "sell"
)

// BotCommandInput is a free-text command forwarded by the messaging
// bot gateway.
type BotCommandInput struct {
	Command        string
	ProductName    string
	Quantity       *int
	UserIdentifier string // e.g. phone number of the bot user
}

// BotCommandResult is the reply sent back through the bot gateway. The
// message is always human-readable; Data carries structured fields for
// gateways that can render them.
type BotCommandResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// ProcessBotCommand dispatches a bot command onto the catalog and order
// core. Unknown products, ambiguity and business-rule violations come
// back as unsuccessful results with an explanatory message rather than
// errors; only infrastructure failures return an error.
func ProcessBotCommand(db *gorm.DB, input BotCommandInput) (*BotCommandResult, error) {
	switch strings.ToLower(strings.TrimSpace(input.Command)) {
	case BotCommandCheckStock:
		return botCheckStock(db, input)
	case BotCommandSell:
		return botSell(db, input)
	default:
		return &BotCommandResult{
			Success: false,
			Message: fmt.Sprintf("Command '%s' is not supported.", input.Command),
		}, nil
	}
}

func botCheckStock(db *gorm.DB, input BotCommandInput) (*BotCommandResult, error) {
	if strings.TrimSpace(input.ProductName) == "" {
		return &BotCommandResult{
			Success: false,
			Message: "A product name is required to check stock.",
		}, nil
	}

	products, _, err := ListProducts(db, ProductListFilters{
		Search:     input.ProductName,
		OnlyActive: true,
		Limit:      5,
	})
	if err != nil {
		return nil, err
	}

	switch len(products) {
	case 0:
		return &BotCommandResult{
			Success: false,
			Message: fmt.Sprintf("Product '%s' not found.", input.ProductName),
		}, nil
	case 1:
		product := products[0]
		return &BotCommandResult{
			Success: true,
			Message: fmt.Sprintf("Stock of %s: %d %s.", product.Name, product.CurrentStock, product.UnitOfMeasurement),
			Data: map[string]interface{}{
				"product_name": product.Name,
				"stock":        product.CurrentStock,
				"unit":         product.UnitOfMeasurement,
			},
		}, nil
	default:
		suggestions := make([]string, 0, 3)
		for i, p := range products {
			if i == 3 {
				break
			}
			suggestions = append(suggestions, fmt.Sprintf("%s (stock: %d)", p.Name, p.CurrentStock))
		}
		return &BotCommandResult{
			Success: false,
			Message: fmt.Sprintf("Product '%s' is ambiguous. Found: %s. Please be more specific.",
				input.ProductName, strings.Join(suggestions, ", ")),
		}, nil
	}
}

func botSell(db *gorm.DB, input BotCommandInput) (*BotCommandResult, error) {
	if strings.TrimSpace(input.ProductName) == "" || input.Quantity == nil || *input.Quantity <= 0 {
		return &BotCommandResult{
			Success: false,
			Message: "A product name and a quantity greater than zero are required to sell.",
		}, nil
	}

	products, _, err := ListProducts(db, ProductListFilters{
		Search:     input.ProductName,
		OnlyActive: true,
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return &BotCommandResult{
			Success: false,
			Message: fmt.Sprintf("Product '%s' not found.", input.ProductName),
		}, nil
	}
	product := products[0]

	seller := input.UserIdentifier
	if seller == "" {
		seller = "unknown user"
	}
	paymentMethod := "cash"
	notes := fmt.Sprintf("Sale via bot by %s", seller)

	order, err := CreateOrder(db, OrderCreateInput{
		Items:         []OrderItemInput{{ProductID: product.ID, Quantity: *input.Quantity}},
		PaymentMethod: &paymentMethod,
		Source:        models.OrderSourceBot,
		Notes:         &notes,
	})
	if err != nil {
		// Business-rule failures become bot replies; everything else
		// propagates as a server error.
		if IsInsufficientStock(err) || IsNotFound(err) {
			return &BotCommandResult{Success: false, Message: err.Error()}, nil
		}
		return nil, err
	}

	return &BotCommandResult{
		Success: true,
		Message: fmt.Sprintf("Recorded sale of %d %s '%s'. Order No: %s.",
			*input.Quantity, product.UnitOfMeasurement, product.Name, order.OrderNumber),
		Data: map[string]interface{}{
			"order_number": order.OrderNumber,
			"total_amount": order.TotalAmount,
		},
	}, nil
}
