package contact

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"git.sr.ht/~aondrejcak/trendify-api/kernel"
	"git.sr.ht/~aondrejcak/trendify-api/models"
)

func RegisterController(r *gin.Engine, adminAuth gin.HandlerFunc) {
	g := r.Group("/contact")

	g.POST("/submit", Submit)

	authorized := g.Group("/")
	authorized.Use(adminAuth)
	{
		authorized.GET("/all", ListAll)
		authorized.PUT("/status/:id", UpdateStatus)
		authorized.DELETE("/delete/:id", Delete)
	}
}

type SubmitDto struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (dto SubmitDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Name, val.Required),
		val.Field(&dto.Email, val.Required, is.Email),
		val.Field(&dto.Subject, val.Required),
		val.Field(&dto.Message, val.Required),
	)
}

func Submit(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("contact.submit").Advance()

	var dto SubmitDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	msg := models.Contact{
		Name:    strings.TrimSpace(dto.Name),
		Email:   strings.ToLower(strings.TrimSpace(dto.Email)),
		Subject: strings.TrimSpace(dto.Subject),
		Message: strings.TrimSpace(dto.Message),
		Status:  models.ContactStatusNew,
	}
	if res := rt.DB.WithContext(rt.SpanContext).Create(&msg); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to save contact message: %v", res.Error)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thank you for contacting us! We'll get back to you soon.",
	})
	rt.EndBlock()
}

func ListAll(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("contact.list").Advance()

	var contacts []models.Contact
	res := rt.DB.WithContext(rt.SpanContext).Order("created_at desc").Find(&contacts)
	if res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to list contacts: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(contacts), "contacts": contacts})
	rt.EndBlock()
}

type StatusDto struct {
	Status string `json:"status"`
}

func (dto StatusDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Status, val.Required, val.In(
			models.ContactStatusNew,
			models.ContactStatusRead,
			models.ContactStatusResolved,
		)),
	)
}

func UpdateStatus(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("contact.update_status").Advance()

	var dto StatusDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	var msg models.Contact
	found, err := rt.First(&msg, "id = ?", c.Param("id"))
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up contact: %v", err)
		return
	}
	if !found {
		rt.Ef(http.StatusNotFound, "Contact not found")
		return
	}

	msg.Status = dto.Status
	if res := rt.DB.WithContext(rt.SpanContext).Save(&msg); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to save contact: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact status updated successfully",
		"contact": msg,
	})
	rt.EndBlock()
}

func Delete(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("contact.delete").Advance()

	var msg models.Contact
	found, err := rt.First(&msg, "id = ?", c.Param("id"))
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up contact: %v", err)
		return
	}
	if !found {
		rt.Ef(http.StatusNotFound, "Contact not found")
		return
	}

	if res := rt.DB.WithContext(rt.SpanContext).Delete(&msg); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to delete contact: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contact message deleted successfully"})
	rt.EndBlock()
}
