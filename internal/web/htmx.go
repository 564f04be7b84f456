package web

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/dashboard"
)

// HTMX events raised through the HX-Trigger response header.
const (
	EventShowAlert       = "showAlert"
	EventDraftsChanged   = "draftsChanged"
	EventProductsChanged = "productsChanged"
)

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// redirect sends HTMX requests an HX-Redirect and everything else a 303.
func redirect(c *gin.Context, location string) {
	if isHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// triggers collects the HX-Trigger events of one response.
type triggers map[string]any

func (t triggers) alert(n dashboard.Notice) triggers {
	t[EventShowAlert] = map[string]string{"kind": string(n.Kind), "text": n.Text}
	return t
}

func (t triggers) event(name string) triggers {
	t[name] = true
	return t
}

// write sets the header. It must run before the body is written.
func (t triggers) write(c *gin.Context) {
	if len(t) == 0 {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	c.Header("HX-Trigger", string(raw))
}

func fragment(c *gin.Context, name string, data any, t triggers) {
	t.write(c)
	c.HTML(http.StatusOK, name, data)
}
