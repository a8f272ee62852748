package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUser      = "user"
	refreshAfter = 24 * time.Hour
)

// User is the identity carried by a token.
type User struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
	MemberID string     `json:"member_id,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == model.RoleAdmin }

type Tokens struct {
	secret []byte
	ttl    time.Duration
	clk    clock.Clock
}

func NewTokens(secret string, ttl time.Duration, clk clock.Clock) *Tokens {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, clk: clk}
}

func (t *Tokens) Issue(u User) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  u.ID,
		"name": u.Name,
		"role": string(u.Role),
		"mid":  u.MemberID,
		"exp":  t.clk.Now().Add(t.ttl).Unix(),
	}).SignedString(t.secret)
}

func (t *Tokens) Parse(raw string) (User, time.Time, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clk.Now),
		jwt.WithExpirationRequired())
	if err != nil {
		return User{}, time.Time{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return User{}, time.Time{}, errors.New("invalid token")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return User{}, time.Time{}, errors.New("invalid token")
	}
	uid, _ := claims["uid"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	mid, _ := claims["mid"].(string)
	if uid == "" || role == "" {
		return User{}, time.Time{}, errors.New("invalid token")
	}
	return User{ID: uid, Name: name, Role: model.Role(role), MemberID: mid}, exp.Time, nil
}

func (t *Tokens) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		u, exp, err := t.Parse(auth[7:])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUser, u)

		// Less than a day left: hand out a fresh token.
		if exp.Sub(t.clk.Now()) < refreshAfter {
			if fresh, err := t.Issue(u); err == nil {
				c.Header("X-New-Token", fresh)
			}
		}

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

func CurrentUser(c *gin.Context) (User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return User{}, false
	}
	u, ok := v.(User)
	return u, ok
}
