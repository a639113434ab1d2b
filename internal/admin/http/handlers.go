package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyphotography/wedding-portal-backend/internal/admin"
	httpapi "github.com/skyphotography/wedding-portal-backend/internal/api/http"
	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

type Handler struct {
	svc *admin.Service
}

func New(svc *admin.Service) *Handler {
	return &Handler{svc: svc}
}

type clientIDsReq struct {
	ClientIDs []string `json:"client_ids" binding:"required,min=1"`
}

type previewReq struct {
	ClientID string `json:"client_id"`
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

type scheduleReq struct {
	TemplateID   string    `json:"template_id" binding:"required"`
	ClientIDs    []string  `json:"client_ids" binding:"required,min=1"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

type meetingReq struct {
	ClientID     string    `json:"client_id" binding:"required"`
	MeetingType  string    `json:"meeting_type"`
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
	Duration     int       `json:"duration"`
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "invalid_input"})
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.dashboard", "failed to load dashboard", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ---- clients ----

func (h *Handler) listClients(c *gin.Context) {
	clients, err := h.svc.ListClients(c.Request.Context(), c.Query("search"))
	if err != nil {
		httpapi.WriteError(c, "admin.list_clients", "failed to list clients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (h *Handler) exportClients(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ExportClients(c.Request.Context(), &buf, c.Query("search")); err != nil {
		httpapi.WriteError(c, "admin.export_clients", "failed to export clients", err)
		return
	}
	filename := "clients-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) createClient(c *gin.Context) {
	var req domain.NewClient
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	client, err := h.svc.CreateClient(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.create_client", "failed to create client", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client})
}

func (h *Handler) getClient(c *gin.Context) {
	client, err := h.svc.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, "admin.get_client", "client not found", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (h *Handler) updateClient(c *gin.Context) {
	var req domain.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	profile, err := h.svc.UpdateClient(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpapi.WriteError(c, "admin.update_client", "failed to update client", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Handler) deleteClient(c *gin.Context) {
	if err := h.svc.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.WriteError(c, "admin.delete_client", "failed to delete client", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- emails ----

func (h *Handler) listTemplates(c *gin.Context) {
	items, err := h.svc.ListEmailTemplates(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.list_templates", "failed to list templates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": items})
}

func (h *Handler) createTemplate(c *gin.Context) {
	var req domain.EmailTemplate
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	t, err := h.svc.CreateEmailTemplate(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.create_template", "failed to create template", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": t})
}

func (h *Handler) updateTemplate(c *gin.Context) {
	var req domain.EmailTemplate
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	req.ID = c.Param("id")
	t, err := h.svc.UpdateEmailTemplate(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.update_template", "failed to update template", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t})
}

func (h *Handler) deleteTemplate(c *gin.Context) {
	if err := h.svc.DeleteEmailTemplate(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.WriteError(c, "admin.delete_template", "failed to delete template", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) previewTemplate(c *gin.Context) {
	var req previewReq
	// body is optional
	_ = c.ShouldBindJSON(&req)
	p, err := h.svc.PreviewEmailTemplate(c.Request.Context(), c.Param("id"), req.ClientID)
	if err != nil {
		httpapi.WriteError(c, "admin.preview_template", "failed to preview template", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": p})
}

func (h *Handler) listScheduled(c *gin.Context) {
	items, err := h.svc.ListScheduledEmails(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.list_scheduled", "failed to list scheduled emails", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scheduled_emails": items})
}

func (h *Handler) scheduleEmail(c *gin.Context) {
	var req scheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	e, err := h.svc.ScheduleEmail(c.Request.Context(), domain.ScheduledEmail{
		TemplateID:   req.TemplateID,
		ClientIDs:    req.ClientIDs,
		ScheduledFor: req.ScheduledFor,
	})
	if err != nil {
		httpapi.WriteError(c, "admin.schedule_email", "failed to schedule email", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"scheduled_email": e})
}

func (h *Handler) cancelScheduled(c *gin.Context) {
	e, err := h.svc.CancelScheduledEmail(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, "admin.cancel_scheduled", "failed to cancel email", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scheduled_email": e})
}

// ---- faqs ----

func (h *Handler) listFAQs(c *gin.Context) {
	items, err := h.svc.ListFAQSets(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.list_faqs", "failed to list faq sets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"faq_sets": items})
}

func (h *Handler) createFAQ(c *gin.Context) {
	var req domain.FAQSet
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	set, err := h.svc.CreateFAQSet(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.create_faq", "failed to create faq set", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"faq_set": set})
}

func (h *Handler) updateFAQ(c *gin.Context) {
	var req domain.FAQSet
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	req.ID = c.Param("id")
	set, err := h.svc.UpdateFAQSet(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.update_faq", "failed to update faq set", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"faq_set": set})
}

func (h *Handler) deleteFAQ(c *gin.Context) {
	if err := h.svc.DeleteFAQSet(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.WriteError(c, "admin.delete_faq", "failed to delete faq set", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) sendFAQ(c *gin.Context) {
	var req clientIDsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	sent, err := h.svc.SendFAQSet(c.Request.Context(), c.Param("id"), req.ClientIDs)
	if err != nil {
		httpapi.WriteError(c, "admin.send_faq", "failed to send faq set", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": sent})
}

// ---- meetings ----

func (h *Handler) listMeetings(c *gin.Context) {
	items, err := h.svc.ListMeetings(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.list_meetings", "failed to list meetings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": items})
}

func (h *Handler) createMeeting(c *gin.Context) {
	var req meetingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	m, err := h.svc.CreateMeeting(c.Request.Context(), domain.Meeting{
		ClientID:     req.ClientID,
		MeetingType:  req.MeetingType,
		ScheduledFor: req.ScheduledFor,
		Duration:     req.Duration,
	})
	if err != nil {
		httpapi.WriteError(c, "admin.create_meeting", "failed to create meeting", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meeting": m})
}

func (h *Handler) listAvailability(c *gin.Context) {
	items, err := h.svc.ListAvailability(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.list_availability", "failed to list availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": items})
}

func (h *Handler) createAvailability(c *gin.Context) {
	var req domain.AvailabilitySlot
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	slot, err := h.svc.CreateAvailability(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.create_availability", "failed to create slot", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}

func (h *Handler) bookAvailability(c *gin.Context) {
	slot, err := h.svc.BookAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, "admin.book_availability", "failed to book slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.svc.GetIntegrationSettings(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.get_settings", "failed to load settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s})
}

func (h *Handler) saveSettings(c *gin.Context) {
	var req domain.IntegrationSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	s, err := h.svc.SaveIntegrationSettings(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.save_settings", "failed to save settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s})
}

// ---- custom forms ----

func (h *Handler) listForms(c *gin.Context) {
	items, err := h.svc.ListCustomForms(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.list_forms", "failed to list forms", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forms": items})
}

func (h *Handler) createForm(c *gin.Context) {
	var req domain.CustomForm
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	f, err := h.svc.CreateCustomForm(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.create_form", "failed to create form", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"form": f})
}

func (h *Handler) updateForm(c *gin.Context) {
	var req domain.CustomForm
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	req.ID = c.Param("id")
	f, err := h.svc.UpdateCustomForm(c.Request.Context(), req)
	if err != nil {
		httpapi.WriteError(c, "admin.update_form", "failed to update form", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": f})
}

func (h *Handler) deleteForm(c *gin.Context) {
	if err := h.svc.DeleteCustomForm(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.WriteError(c, "admin.delete_form", "failed to delete form", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) sendForm(c *gin.Context) {
	var req clientIDsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	reqs, err := h.svc.SendCustomForm(c.Request.Context(), c.Param("id"), req.ClientIDs)
	if err != nil {
		httpapi.WriteError(c, "admin.send_form", "failed to send form", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *Handler) listRequests(c *gin.Context) {
	items, err := h.svc.ListFormRequests(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "admin.list_requests", "failed to list form requests", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

func (h *Handler) updateRequestStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	r, err := h.svc.UpdateFormRequestStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		httpapi.WriteError(c, "admin.update_request", "failed to update request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": r})
}
