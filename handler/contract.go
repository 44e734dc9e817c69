package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/service"
)

type ContractHandler struct {
	contracts *service.ContractService
}

func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// Create stores a new contract for the current user
func (h *ContractHandler) Create(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	var req model.Contract
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contract)
}

// List returns the current user's contracts, newest first
func (h *ContractHandler) List(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	contracts, err := h.contracts.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

// Get returns a single contract
func (h *ContractHandler) Get(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Update overwrites the editable fields of a contract
func (h *ContractHandler) Update(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	var req model.Contract
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	contract, err := h.contracts.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Delete deletes a contract
func (h *ContractHandler) Delete(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	if err := h.contracts.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}
