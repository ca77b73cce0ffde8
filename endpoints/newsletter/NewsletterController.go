package newsletter

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"git.sr.ht/~aondrejcak/trendify-api/kernel"
	"git.sr.ht/~aondrejcak/trendify-api/models"
)

func RegisterController(r *gin.Engine, adminAuth gin.HandlerFunc) {
	g := r.Group("/newsletter")

	g.POST("/subscribe", Subscribe)
	g.POST("/unsubscribe", Unsubscribe)

	authorized := g.Group("/")
	authorized.Use(adminAuth)
	{
		authorized.GET("/all", ListAll)
		authorized.DELETE("/delete/:id", Delete)
	}
}

type EmailDto struct {
	Email string `json:"email"`
}

func (dto EmailDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Email, val.Required, is.Email),
	)
}

func Subscribe(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("newsletter.subscribe").Advance()

	var dto EmailDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var sub models.Subscriber
	found, err := rt.First(&sub, "email = ?", email)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up subscriber: %v", err)
		return
	}

	if found {
		if sub.IsActive {
			rt.Ef(http.StatusBadRequest, "This email is already subscribed to our newsletter")
			return
		}
		sub.IsActive = true
		sub.SubscribedAt = time.Now()
		if res := rt.DB.WithContext(rt.SpanContext).Save(&sub); res.Error != nil {
			rt.Ef(http.StatusInternalServerError, "failed to save subscriber: %v", res.Error)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Welcome back! Your subscription has been reactivated.",
		})
		rt.EndBlock()
		return
	}

	sub = models.Subscriber{Email: email, IsActive: true, SubscribedAt: time.Now()}
	if res := rt.DB.WithContext(rt.SpanContext).Create(&sub); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to save subscriber: %v", res.Error)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thank you for subscribing! You've unlocked 20% off your next purchase.",
	})
	rt.EndBlock()
}

func Unsubscribe(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("newsletter.unsubscribe").Advance()

	var dto EmailDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	var sub models.Subscriber
	found, err := rt.First(&sub, "email = ?", strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up subscriber: %v", err)
		return
	}
	if !found {
		rt.Ef(http.StatusNotFound, "Email not found in our newsletter list")
		return
	}

	sub.IsActive = false
	if res := rt.DB.WithContext(rt.SpanContext).Save(&sub); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to save subscriber: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have been unsubscribed from our newsletter"})
	rt.EndBlock()
}

func ListAll(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("newsletter.list").Advance()

	// Inactive rows included so the admin view shows churn.
	var subs []models.Subscriber
	res := rt.DB.WithContext(rt.SpanContext).Order("subscribed_at desc").Find(&subs)
	if res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to list subscribers: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(subs), "subscribers": subs})
	rt.EndBlock()
}

func Delete(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("newsletter.delete").Advance()

	var sub models.Subscriber
	found, err := rt.First(&sub, "id = ?", c.Param("id"))
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up subscriber: %v", err)
		return
	}
	if !found {
		rt.Ef(http.StatusNotFound, "Subscriber not found")
		return
	}

	if res := rt.DB.WithContext(rt.SpanContext).Delete(&sub); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to delete subscriber: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscriber removed successfully"})
	rt.EndBlock()
}
