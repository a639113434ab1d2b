package http

import "github.com/gin-gonic/gin"

// Register attaches admin console routes. The group must already require an admin session.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)

	clients := rg.Group("/clients")
	clients.GET("", h.listClients)
	clients.GET("/export.csv", h.exportClients)
	clients.POST("", h.createClient)
	clients.GET("/:id", h.getClient)
	clients.PUT("/:id", h.updateClient)
	clients.DELETE("/:id", h.deleteClient)

	emails := rg.Group("/emails")
	emails.GET("/templates", h.listTemplates)
	emails.POST("/templates", h.createTemplate)
	emails.PUT("/templates/:id", h.updateTemplate)
	emails.DELETE("/templates/:id", h.deleteTemplate)
	emails.POST("/templates/:id/preview", h.previewTemplate)
	emails.GET("/scheduled", h.listScheduled)
	emails.POST("/scheduled", h.scheduleEmail)
	emails.POST("/scheduled/:id/cancel", h.cancelScheduled)

	faqs := rg.Group("/faqs")
	faqs.GET("", h.listFAQs)
	faqs.POST("", h.createFAQ)
	faqs.PUT("/:id", h.updateFAQ)
	faqs.DELETE("/:id", h.deleteFAQ)
	faqs.POST("/:id/send", h.sendFAQ)

	meetings := rg.Group("/meetings")
	meetings.GET("", h.listMeetings)
	meetings.POST("", h.createMeeting)
	meetings.GET("/availability", h.listAvailability)
	meetings.POST("/availability", h.createAvailability)
	meetings.POST("/availability/:id/book", h.bookAvailability)
	meetings.GET("/settings", h.getSettings)
	meetings.PUT("/settings", h.saveSettings)

	forms := rg.Group("/forms")
	forms.GET("", h.listForms)
	forms.POST("", h.createForm)
	forms.GET("/requests", h.listRequests)
	forms.PUT("/requests/:id/status", h.updateRequestStatus)
	forms.PUT("/:id", h.updateForm)
	forms.DELETE("/:id", h.deleteForm)
	forms.POST("/:id/send", h.sendForm)
}
