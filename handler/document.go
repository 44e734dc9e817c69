package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/document"
	"github.com/srvalle/contract-pro/locale"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/render"
	"github.com/srvalle/contract-pro/service"
)

// Archiver stores rendered contracts. ArchiveService implements it.
type Archiver interface {
	PutPDF(ctx context.Context, ownerID, contractID string, lang locale.Lang, pdf []byte) (string, error)
	PresignedURL(ctx context.Context, objectName string) (string, error)
}

type DocumentHandler struct {
	contracts *service.ContractService
	target    *render.Target
	archive   Archiver
	filename  string
}

// NewDocumentHandler creates the handler. archive may be nil when object
// storage is disabled.
func NewDocumentHandler(contracts *service.ContractService, target *render.Target, archive Archiver, filename string) *DocumentHandler {
	return &DocumentHandler{
		contracts: contracts,
		target:    target,
		archive:   archive,
		filename:  filename,
	}
}

// compose loads the contract of the current user and composes it in the
// requested language. On failure the response has been written.
func (h *DocumentHandler) compose(c *gin.Context) (*model.Contract, *document.Document, bool) {
	userID, ok := sessionUser(c)
	if !ok {
		return nil, nil, false
	}

	lang, err := requestLang(c)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	contract, err := h.contracts.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	doc, err := document.Compose(contract, lang)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return contract, doc, true
}

// Document returns the composed document tree
func (h *DocumentHandler) Document(c *gin.Context) {
	_, doc, ok := h.compose(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Preview renders the document as HTML
func (h *DocumentHandler) Preview(c *gin.Context) {
	_, doc, ok := h.compose(c)
	if !ok {
		return
	}

	html, err := h.target.Preview(c.Request.Context(), doc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Language", string(doc.Lang))
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// PDF renders the document as PDF. ?download=1 asks the browser to save it.
func (h *DocumentHandler) PDF(c *gin.Context) {
	_, doc, ok := h.compose(c)
	if !ok {
		return
	}

	pdf, err := h.target.PDF(c.Request.Context(), doc)
	if err != nil {
		respondError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "1" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, h.filename))
	c.Header("Content-Language", string(doc.Lang))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Archive renders the PDF, stores it and returns a presigned download URL
func (h *DocumentHandler) Archive(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Object storage is not configured"})
		return
	}

	contract, doc, ok := h.compose(c)
	if !ok {
		return
	}

	pdf, err := h.target.PDF(c.Request.Context(), doc)
	if err != nil {
		respondError(c, err)
		return
	}

	objectName, err := h.archive.PutPDF(c.Request.Context(), contract.OwnerID, contract.ID, doc.Lang, pdf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive contract: " + err.Error()})
		return
	}

	url, err := h.archive.PresignedURL(c.Request.Context(), objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate URL: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": objectName,
		"url":    url,
		"lang":   doc.Lang,
	})
}
