package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MullerEsposito/starkoverflow-engine/internal/service"
)

// Minter is the faucet surface of the token ledger. Kept separate from
// ValueLedger so the engine's own services can never mint.
type Minter interface {
	Mint(ctx context.Context, address string, amount decimal.Decimal) error
}

type UserHandler struct {
	users         *service.UserService
	ledger        service.ValueLedger
	minter        Minter
	faucetEnabled bool
}

func NewUserHandler(users *service.UserService, ledger service.ValueLedger, minter Minter, faucetEnabled bool) *UserHandler {
	return &UserHandler{users: users, ledger: ledger, minter: minter, faucetEnabled: faucetEnabled}
}

// Get handles GET /api/users/:address
func (h *UserHandler) Get(c *gin.Context) {
	address := c.Param("address")
	if err := validate.Var(address, "required,eth_addr"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid address"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Balance handles GET /api/balances/:address
func (h *UserHandler) Balance(c *gin.Context) {
	address := c.Param("address")
	if err := validate.Var(address, "required,eth_addr"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid address"})
		return
	}

	balance, err := h.ledger.BalanceOf(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address, "balance": balance})
}

// Faucet handles POST /api/faucet. Development only; returns 404 when the
// faucet is disabled so production deployments do not advertise the route.
func (h *UserHandler) Faucet(c *gin.Context) {
	if !h.faucetEnabled {
		c.JSON(http.StatusNotFound, gin.H{"err": "not found"})
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid amount"})
		return
	}

	if err := h.minter.Mint(c.Request.Context(), caller, amount); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": caller, "minted": amount})
}
