package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"

	"git.sr.ht/~aondrejcak/trendify-api/kernel"
	"git.sr.ht/~aondrejcak/trendify-api/models"
)

func RegisterController(r *gin.Engine) {
	g := r.Group("/cart")

	g.POST("/add", AddToCart)
	g.GET("/list/:userId", ListCart)
	g.DELETE("/remove", RemoveFromCart)
}

type CartLineDto struct {
	UserID uint   `json:"userId"`
	ItemID string `json:"itemId"`
	Size   string `json:"size"`
}

func (dto CartLineDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.UserID, val.Required),
		val.Field(&dto.ItemID, val.Required),
	)
}

func AddToCart(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("cart.add").Advance()

	var dto CartLineDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	var line models.CartItem
	found, err := rt.First(&line, "user_id = ? AND item_id = ? AND size = ?",
		dto.UserID, dto.ItemID, dto.Size)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up cart line: %v", err)
		return
	}

	if found {
		line.Quantity++
	} else {
		line = models.CartItem{UserID: dto.UserID, ItemID: dto.ItemID, Size: dto.Size, Quantity: 1}
	}
	if res := rt.DB.WithContext(rt.SpanContext).Save(&line); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to save cart line: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to cart", "item": line})
	rt.EndBlock()
}

func ListCart(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("cart.list").Advance()

	var lines []models.CartItem
	res := rt.DB.WithContext(rt.SpanContext).
		Where("user_id = ?", c.Param("userId")).
		Order("created_at").
		Find(&lines)
	if res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to list cart: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(lines), "cart": lines})
	rt.EndBlock()
}

func RemoveFromCart(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("cart.remove").Advance()

	var dto CartLineDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	var line models.CartItem
	found, err := rt.First(&line, "user_id = ? AND item_id = ? AND size = ?",
		dto.UserID, dto.ItemID, dto.Size)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up cart line: %v", err)
		return
	}
	if !found {
		rt.Ef(http.StatusNotFound, "cart line does not exist")
		return
	}

	if line.Quantity > 1 {
		line.Quantity--
		if res := rt.DB.WithContext(rt.SpanContext).Save(&line); res.Error != nil {
			rt.Ef(http.StatusInternalServerError, "failed to save cart line: %v", res.Error)
			return
		}
	} else {
		if res := rt.DB.WithContext(rt.SpanContext).Delete(&line); res.Error != nil {
			rt.Ef(http.StatusInternalServerError, "failed to delete cart line: %v", res.Error)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from cart"})
	rt.EndBlock()
}
