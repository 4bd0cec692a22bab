package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"MimiPlatform/internal/middleware"
	"MimiPlatform/internal/models"
)

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) GetWallet(c *fiber.Ctx) error {
	wallet, err := h.Wallet.GetWallet(middleware.Principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(wallet)
}

// ListTransactions supports ?type=, ?limit= and ?offset=.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	kind := models.TransactionType(c.Query("type"))
	switch kind {
	case "", models.TransactionDeposit, models.TransactionDebit, models.TransactionCredit, models.TransactionRefund:
	default:
		return badRequest(c, "Invalid transaction type")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	txns, total, err := h.Wallet.ListTransactions(middleware.Principal(c), kind, limit, offset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"transactions": txns,
		"count":        len(txns),
		"total":        total,
	})
}

// InitiateDeposit starts a wallet top-up through the payment gateway.
func (h *Handler) InitiateDeposit(c *fiber.Ctx) error {
	var req DepositRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	deposit, err := h.Wallet.InitiateDeposit(middleware.Principal(c), req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Deposit initiated. Complete payment to credit your wallet.",
		"deposit": deposit,
	})
}

func (h *Handler) VerifyDeposit(c *fiber.Ctx) error {
	txn, err := h.Wallet.VerifyDeposit(middleware.Principal(c), c.Params("reference"))
	if err != nil {
		return h.fail(c, err)
	}
	wallet, err := h.Wallet.GetWallet(middleware.Principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	h.Log.Info("deposit completed", "reference", txn.Reference, "amount", txn.Amount.StringFixed(2))
	return c.JSON(fiber.Map{
		"message":     "Deposit completed successfully",
		"transaction": txn,
		"balance":     wallet.Balance,
	})
}
