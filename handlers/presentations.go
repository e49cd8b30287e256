// Package handlers exposes the demo-mode API the dashboard consumes.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/exports"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/identity"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/kvstore"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation/service"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation/store"
)

const exportURLTTL = 15 * time.Minute

// API bundles the dependencies the demo routes need. Publisher may be nil;
// exports are then streamed inline instead of published to object storage.
type API struct {
	Svc       *service.Service
	Docs      *store.DocumentStore
	Ident     *identity.Resolver
	KV        kvstore.Store
	Publisher *exports.Publisher
}

// RegisterRoutes mounts the presentation and demo-utility endpoints.
func RegisterRoutes(r *gin.Engine, api *API) {
	r.GET("/api/presentations", api.listPresentations)
	r.POST("/api/presentations", api.createPresentation)
	r.GET("/api/presentations/:id", api.getPresentation)
	r.PATCH("/api/presentations/:id", api.updatePresentation)
	r.DELETE("/api/presentations/:id", api.deletePresentation)
	r.POST("/api/presentations/:id/duplicate", api.duplicatePresentation)
	r.POST("/api/presentations/:id/share", api.sharePresentation)
	r.GET("/api/presentations/:id/export", api.exportPresentation)

	r.GET("/api/demo/user", api.currentUser)
	r.PUT("/api/demo/user", api.setCurrentUser)
	r.POST("/api/demo/reset", api.resetDemo)
}

func (api *API) listPresentations(c *gin.Context) {
	owner := c.Query("owner")
	list, err := api.Svc.List(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (api *API) createPresentation(c *gin.Context) {
	var doc presentation.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := api.Svc.Save(c.Request.Context(), &doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// getPresentation serves the full document; each successful read counts as a
// view on the dashboard.
func (api *API) getPresentation(c *gin.Context) {
	doc, err := api.Svc.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

type updateRequest struct {
	Title       *string               `json:"title,omitempty"`
	Slides      *[]presentation.Slide `json:"slides,omitempty"`
	Description *string               `json:"description,omitempty"`
	Status      *presentation.Status  `json:"status,omitempty"`
	IsPublic    *bool                 `json:"is_public,omitempty"`
	Theme       *string               `json:"theme,omitempty"`
}

func (api *API) updatePresentation(c *gin.Context) {
	id := c.Param("id")
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := presentation.DocumentPatch{
		Title:       req.Title,
		Slides:      req.Slides,
		Description: req.Description,
		Status:      req.Status,
		IsPublic:    req.IsPublic,
		Theme:       req.Theme,
	}
	if err := api.Svc.Update(c.Request.Context(), id, patch); err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (api *API) deletePresentation(c *gin.Context) {
	if err := api.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *API) duplicatePresentation(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	// body is optional; absence means default title
	_ = c.ShouldBindJSON(&req)

	newID, err := api.Svc.Duplicate(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": newID})
}

func (api *API) sharePresentation(c *gin.Context) {
	var req struct {
		Recipient  string `json:"recipient"`
		Permission string `json:"permission"`
	}
	_ = c.ShouldBindJSON(&req)

	url, err := api.Svc.Share(c.Request.Context(), c.Param("id"), req.Recipient, req.Permission)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// exportPresentation renders the stored document without counting a view.
// With ?publish=true and object storage configured, the payload is uploaded
// and a presigned download URL returned; otherwise it streams inline.
func (api *API) exportPresentation(c *gin.Context) {
	id := c.Param("id")
	format := c.DefaultQuery("format", exports.FormatJSON)

	doc, found, err := api.Docs.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	payload, contentType, err := exports.Render(doc, format)
	if err != nil {
		if errors.Is(err, exports.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("publish") == "true" && api.Publisher != nil {
		url, err := api.Publisher.Publish(c.Request.Context(), id, format, payload, contentType, exportURLTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+"."+format))
	c.Data(http.StatusOK, contentType, payload)
}
