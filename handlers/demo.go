package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/identity"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/logger"
)

// currentUser returns the stored identity record, or the resolved fallback
// when nothing has been established yet.
func (api *API) currentUser(c *gin.Context) {
	u, err := api.Ident.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if u == nil {
		u = &identity.User{ID: api.Ident.OwnerID(c.Request.Context())}
	}
	c.JSON(http.StatusOK, u)
}

func (api *API) setCurrentUser(c *gin.Context) {
	var u identity.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := api.Ident.SetCurrentUser(c.Request.Context(), &u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// resetDemo backs the dashboard's "clear storage" modal: every demo key is
// removed, presentations and identity alike.
func (api *API) resetDemo(c *gin.Context) {
	if err := api.KV.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("demo storage cleared")
	c.Status(http.StatusNoContent)
}
