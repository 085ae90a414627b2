package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"MyHome/internal/model"
	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	documentField = "memberDocument"
	// multipart 边界和头部的余量
	multipartOverhead = 64 * 1024
)

type DocumentHandler struct {
	svc *service.DocumentService
}

func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.svc.GetHouseMemberDocument(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.DocumentFilename))
	c.Data(http.StatusOK, "image/jpeg", doc.DocumentContent)
}

func (h *DocumentHandler) Create(c *gin.Context) {
	h.upload(c, h.svc.CreateHouseMemberDocument)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	h.upload(c, h.svc.UpdateHouseMemberDocument)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteHouseMemberDocument(c.Request.Context(), c.Param("memberId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type storeFunc func(ctx context.Context, memberID string, data []byte) (*model.HouseMemberDocument, error)

// upload 读取 multipart 字段 memberDocument，大小由服务层最终判定
func (h *DocumentHandler) upload(c *gin.Context, store storeFunc) {
	limit := h.svc.MaxBytes() + multipartOverhead
	if c.Request.ContentLength > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"msg": "document too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile(documentField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"msg": "document too large"})
			return
		}
		invalidParams(c)
		return
	}
	if fh.Size > h.svc.MaxBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"msg": "document too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, err)
		return
	}

	if _, err := store(c.Request.Context(), c.Param("memberId"), data); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
