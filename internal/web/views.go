package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/backend"
	"github.com/jimdaga/automarketer/internal/dashboard"
	"github.com/jimdaga/automarketer/internal/models"
	"github.com/jimdaga/automarketer/internal/session"
)

func (s *Server) dashboardPage(c *gin.Context) {
	user, err := session.Init(c).User()
	if err != nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	ws := s.registry.Open(user.Email)
	if err := ws.Mount(c.Request.Context()); err != nil {
		s.logger.Error("Failed to load dashboard", "email", user.Email, "error", err)
	}

	headers, _ := json.Marshal(map[string]string{HeaderViewID: ws.ID})
	c.HTML(http.StatusOK, "dashboard.html", dashboardPage{
		Title:     "Dashboard",
		User:      user,
		ViewID:    ws.ID,
		HXHeaders: string(headers),
		Products:  newProductsData(ws),
		Generator: newGeneratorData(ws),
		History:   newHistoryData(ws),
		Toast:     dashboard.CopyToast(),
	})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// Products

func (s *Server) productsFragment(c *gin.Context) {
	ws := workspace(c)
	if err := ws.Products.Sync(c.Request.Context(), ws.Owner); err != nil {
		fragment(c, "products", newProductsData(ws), triggers{}.alert(dashboard.Alert(dashboard.NoticeDanger, dashboard.GenericError)))
		return
	}
	fragment(c, "products", newProductsData(ws), nil)
}

func (s *Server) createProduct(c *gin.Context) {
	ws := workspace(c)
	err := ws.Products.Create(c.Request.Context(), ws.Owner, dashboard.ProductForm{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Offers:      c.PostForm("offers"),
	})

	t := triggers{}
	switch {
	case err == nil:
		t.event(EventProductsChanged)
	case dashboard.IsValidation(err):
		t.alert(dashboard.Alert(dashboard.NoticeWarning, "Product name is required"))
	}
	fragment(c, "products", newProductsData(ws), t)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ws := workspace(c)
	err := ws.Products.Delete(c.Request.Context(), ws.Owner, id, c.PostForm("confirm") == "yes")

	t := triggers{}
	if err == nil {
		t.event(EventProductsChanged).event(EventDraftsChanged)
		if sel := ws.Generator.View(); sel.ProductID == id {
			ws.Generator.Select(0, sel.Platform)
		}
		if rerr := ws.History.Reload(c.Request.Context()); rerr != nil {
			s.logger.Warn("Failed to reload history after delete", "error", rerr)
		}
	}
	fragment(c, "products", newProductsData(ws), t)
}

func (s *Server) cancelDelete(c *gin.Context) {
	ws := workspace(c)
	ws.Products.CancelDelete()
	fragment(c, "products", newProductsData(ws), nil)
}

// Generation

func (s *Server) generatorFragment(c *gin.Context) {
	fragment(c, "generator", newGeneratorData(workspace(c)), nil)
}

func (s *Server) generate(c *gin.Context) {
	ws := workspace(c)

	platform, err := models.ParsePlatform(c.PostForm("platform"))
	if err != nil {
		platform = models.PlatformInstagram
	}
	id, _ := strconv.ParseInt(strings.TrimSpace(c.PostForm("product_id")), 10, 64)
	product, found := ws.Products.Find(id)
	if !found {
		product = backend.Product{ID: id}
	}
	ws.Generator.Select(id, platform)

	t := triggers{}
	err = ws.Generator.Generate(c.Request.Context(), ws.Owner, product, platform)
	switch {
	case errors.Is(err, dashboard.ErrGenerationInFlight):
		t.alert(dashboard.Alert(dashboard.NoticeInfo, "Generation already in progress"))
	case err != nil:
		t.alert(dashboard.Alert(dashboard.NoticeWarning, dashboard.SelectProductWarning))
	case ws.Generator.View().Succeeded():
		t.event(EventDraftsChanged)
	}
	fragment(c, "generator", newGeneratorData(ws), t)
}

func formPlatform(c *gin.Context) models.Platform {
	p, _ := models.ParsePlatform(c.PostForm("platform"))
	return p
}

func (s *Server) postSocial(c *gin.Context) {
	ws := workspace(c)
	n := ws.Generator.PostToSocial(c.Request.Context(), c.PostForm("content"), formPlatform(c), c.PostForm("product_name"))
	triggers{}.alert(n).write(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) sendEmail(c *gin.Context) {
	ws := workspace(c)
	n, _ := ws.Generator.SendEmail(c.Request.Context(), c.PostForm("content"), c.PostForm("recipient"))
	fragment(c, "generator", newGeneratorData(ws), triggers{}.alert(n))
}

func (s *Server) publishBlog(c *gin.Context) {
	ws := workspace(c)
	n := ws.Generator.PublishBlog(c.Request.Context(), c.PostForm("content"), c.PostForm("title"))
	triggers{}.alert(n).write(c)
	c.Status(http.StatusNoContent)
}

// History

func (s *Server) historyFragment(c *gin.Context) {
	ws := workspace(c)
	t := triggers{}
	if err := ws.SyncHistory(c.Request.Context()); err != nil {
		t.alert(dashboard.Alert(dashboard.NoticeDanger, "Failed to load drafts"))
	}
	fragment(c, "history", newHistoryData(ws), t)
}

func (s *Server) reloadHistory(c *gin.Context) {
	ws := workspace(c)
	t := triggers{}
	if err := ws.History.Reload(c.Request.Context()); err != nil {
		t.alert(dashboard.Alert(dashboard.NoticeDanger, "Failed to load drafts"))
	}
	fragment(c, "history", newHistoryData(ws), t)
}

func (s *Server) toggleDraft(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ws := workspace(c)
	ws.History.Toggle(id)
	row, found := ws.History.Draft(id)
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	fragment(c, "draft_row", row, nil)
}
