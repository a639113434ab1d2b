package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpapi "github.com/skyphotography/wedding-portal-backend/internal/api/http"
	"github.com/skyphotography/wedding-portal-backend/internal/auth"
	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/weddingform"
	"github.com/skyphotography/wedding-portal-backend/internal/weddingform/catalog"
)

type Handler struct {
	forms *weddingform.Service
	now   func() time.Time
}

func New(forms *weddingform.Service) *Handler {
	return &Handler{forms: forms, now: time.Now}
}

// Register expects RequireClient on the group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/form", h.GetForm)
	rg.GET("/form/sections/:section", h.GetSection)
	rg.PATCH("/form/fields", h.UpdateField)
	rg.PATCH("/form", h.UpdateSection)
	rg.POST("/form/save", h.Save)
}

func (h *Handler) store(c *gin.Context) *weddingform.Store {
	return h.forms.For(c.Request.Context(), auth.SessionFrom(c).UserID())
}

func (h *Handler) Dashboard(c *gin.Context) {
	data := h.store(c).Snapshot()
	percent := weddingform.CompletionPercentage(data)
	sections := catalog.States(data)

	completed := 0
	for _, s := range sections {
		if s.Status == catalog.StatusComplete {
			completed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":               auth.SessionFrom(c).Profile,
		"completion_percentage": percent,
		"status_message":        weddingform.StatusMessage(percent),
		"sections":              sections,
		"completed_sections":    completed,
		"sections_total":        len(sections),
		"days_until_wedding":    weddingform.DaysUntilWedding(data, h.now()),
		"timeline":              weddingform.Timeline(data),
		"form_data":             data,
	})
}

func (h *Handler) GetForm(c *gin.Context) {
	h.writeForm(c, h.store(c))
}

// GetSection serves a wizard deep link.
func (h *Handler) GetSection(c *gin.Context) {
	sec, ok := catalog.Find(c.Param("section"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	data := h.store(c).Snapshot()
	values := domain.FieldMap{}
	for _, f := range sec.Fields {
		values[f] = data[f]
	}
	prev, next := catalog.Neighbours(sec.ID)

	c.JSON(http.StatusOK, gin.H{
		"section": sec,
		"status":  catalog.StatusOf(sec, data),
		"values":  values,
		"index":   catalog.Index(sec.ID),
		"prev":    prev,
		"next":    next,
	})
}

func (h *Handler) UpdateField(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Value any    `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	st := h.store(c)
	st.UpdateField(req.Name, req.Value)
	h.writeForm(c, st)
}

func (h *Handler) UpdateSection(c *gin.Context) {
	var req struct {
		Values domain.FieldMap `json:"values" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	st := h.store(c)
	st.UpdateSection(req.Values)
	h.writeForm(c, st)
}

// Save persists immediately. Failures surface to the caller.
func (h *Handler) Save(c *gin.Context) {
	st := h.store(c)
	form, err := st.Save(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "form.save", "failed to save wedding form", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved":                 true,
		"updated_at":            form.UpdatedAt,
		"completion_percentage": st.CompletionPercentage(),
	})
}

func (h *Handler) writeForm(c *gin.Context, st *weddingform.Store) {
	data := st.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"form_data":             data,
		"completion_percentage": weddingform.CompletionPercentage(data),
		"sections":              catalog.States(data),
		"pending_save":          st.HasPendingSave(),
	})
}
