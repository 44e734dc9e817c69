package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/document"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/render"
	"github.com/srvalle/contract-pro/service"
)

type DispatchHandler struct {
	contracts  *service.ContractService
	target     *render.Target
	dispatcher *service.Dispatcher
}

func NewDispatchHandler(contracts *service.ContractService, target *render.Target, dispatcher *service.Dispatcher) *DispatchHandler {
	return &DispatchHandler{contracts: contracts, target: target, dispatcher: dispatcher}
}

// Send renders the contract in the requested language and posts it to the
// delivery webhook.
func (h *DispatchHandler) Send(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	lang, err := requestLang(c)
	if err != nil {
		respondError(c, err)
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	doc, err := document.Compose(contract, lang)
	if err != nil {
		respondError(c, err)
		return
	}

	key := service.DispatchKey(userID, contract.ID)
	outcome, err := h.dispatcher.Dispatch(c.Request.Context(), key, contract, func(ctx context.Context) ([]byte, error) {
		return h.target.PDF(ctx, doc)
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, outcome)
	case errors.Is(err, model.ErrDispatchInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A delivery for this contract is already in progress", "outcome": outcome})
	case errors.Is(err, model.ErrDispatchFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": outcome.Message, "outcome": outcome})
	default:
		respondError(c, err)
	}
}

// Status returns the outcome of the latest delivery
func (h *DispatchHandler) Status(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.dispatcher.Status(service.DispatchKey(userID, contract.ID)))
}
