package endpoints

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/golang-jwt/jwt/v5"

	"git.sr.ht/~aondrejcak/trendify-api/kernel"
	"git.sr.ht/~aondrejcak/trendify-api/models"
)

func RegisterUserController(r *gin.Engine) {
	g := r.Group("/user")

	g.POST("/register", RegisterUser)
	g.POST("/login", LoginUser)
	g.GET("/profile/:id", GetProfile)
	g.PUT("/profile/:id", UpdateProfile)
	g.GET("/all", ListUsers)
}

// userToken mints the storefront session token: subject is the user id,
// no expiry, same signing key as the admin tokens.
func userToken(rt *kernel.RequestRuntime, userID uint) (string, error) {
	claims := jwt.MapClaims{"id": userID}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(rt.AppRuntime.SecretKey)
}

type RegisterDto struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto RegisterDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Name, val.Required),
		val.Field(&dto.Email, val.Required, is.Email),
		val.Field(&dto.Password, val.Required, val.Length(8, 0)),
	)
}

func RegisterUser(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("user.register").Advance()

	var dto RegisterDto
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

	var existing models.User
	found, err := rt.First(&existing, "email = ?", email)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to check existing user: %v", err)
		return
	}
	if found {
		rt.Ef(http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := kernel.HashPassword(dto.Password)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to hash password: %v", err)
		return
	}

	user := models.User{Name: strings.TrimSpace(dto.Name), Email: email, PasswordHash: hash}
	if res := rt.DB.WithContext(rt.SpanContext).Create(&user); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to save user: %v", res.Error)
		return
	}

	token, err := userToken(rt, user.ID)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to issue token: %v", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
	rt.EndBlock()
}

type UserLoginDto struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto UserLoginDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Email, val.Required),
		val.Field(&dto.Password, val.Required),
	)
}

func LoginUser(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("user.login").Advance()

	var dto UserLoginDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	var user models.User
	found, err := rt.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up user: %v", err)
		return
	}
	if !found || kernel.ComparePasswordAndHash(dto.Password, user.PasswordHash) != nil {
		rt.Ef(http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := userToken(rt, user.ID)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to issue token: %v", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
	rt.EndBlock()
}

func GetProfile(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("user.profile").Advance()

	var user models.User
	found, err := rt.First(&user, "id = ?", c.Param("id"))
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up user: %v", err)
		return
	}
	if !found {
		rt.Ef(http.StatusNotFound, "user with ID '%v' does not exist", c.Param("id"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	rt.EndBlock()
}

type UpdateProfileDto struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (dto UpdateProfileDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Email, is.Email),
	)
}

func UpdateProfile(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("user.update_profile").Advance()

	var dto UpdateProfileDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	var user models.User
	found, err := rt.First(&user, "id = ?", c.Param("id"))
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to look up user: %v", err)
		return
	}
	if !found {
		rt.Ef(http.StatusNotFound, "user with ID '%v' does not exist", c.Param("id"))
		return
	}

	if dto.Name != "" {
		user.Name = strings.TrimSpace(dto.Name)
	}
	if dto.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	}
	if res := rt.DB.WithContext(rt.SpanContext).Save(&user); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to save user: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	rt.EndBlock()
}

func ListUsers(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("user.list").Advance()

	var users []models.User
	if res := rt.DB.WithContext(rt.SpanContext).Order("created_at desc").Find(&users); res.Error != nil {
		rt.Ef(http.StatusInternalServerError, "failed to list users: %v", res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "users": users})
	rt.EndBlock()
}
