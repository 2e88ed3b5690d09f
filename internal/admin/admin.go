// Package admin serves the password-protected dashboard listing stored feedback.
package admin

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"portfolio-feedback/internal/feedback"
)

const (
	sessionName   = "feedback_admin"
	sessionMaxAge = 24 * time.Hour

	userKey    = "admin_user"
	loginAtKey = "login_at"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds the admin credentials. Password may be a bcrypt hash.
type Config struct {
	Username      string
	Password      string
	SessionSecret string
	SecureCookie  bool
}

type Handler struct {
	svc   *feedback.Service
	cfg   Config
	store cookie.Store
	tmpl  *template.Template
	now   func() time.Time
}

func NewHandler(svc *feedback.Service, cfg Config) (*Handler, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("admin username and password are required")
	}
	secret := cfg.SessionSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		log.Printf("⚠️ SESSION_SECRET not set, admin sessions will not survive a restart")
	}

	tmpl, err := template.New("admin").Funcs(template.FuncMap{
		"upper": func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse admin templates: %w", err)
	}

	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/admin",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return &Handler{svc: svc, cfg: cfg, store: store, tmpl: tmpl, now: time.Now}, nil
}

// Register mounts the admin pages on g, which is expected to be /admin.
func (h *Handler) Register(g *gin.RouterGroup) {
	secureConfig := secure.DefaultConfig()
	secureConfig.SSLRedirect = false
	secureConfig.ContentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'"
	g.Use(secure.New(secureConfig), sessions.Sessions(sessionName, h.store))

	g.GET("/login", h.LoginPage)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/dashboard", h.RequireAdmin(), h.Dashboard)
}

func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, "login.html", gin.H{"Failed": c.Query("error") != ""})
}

func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	if !h.checkCredentials(username, c.PostForm("password")) {
		log.Printf("🔒 Admin login failed for %q from %s", username, c.ClientIP())
		c.Redirect(http.StatusFound, "/admin/login?error=1")
		return
	}

	session := sessions.Default(c)
	session.Set(userKey, username)
	session.Set(loginAtKey, h.now().Unix())
	if err := session.Save(); err != nil {
		log.Printf("❌ Failed to save admin session: %v", err)
		c.Redirect(http.StatusFound, "/admin/login?error=1")
		return
	}
	log.Printf("🔓 Admin %s logged in", username)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/admin", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("❌ Failed to clear admin session: %v", err)
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

// RequireAdmin redirects to the login page unless the session holds a
// login that is younger than the session window.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		user, _ := session.Get(userKey).(string)
		loginAt, _ := session.Get(loginAtKey).(int64)
		if user == "" || loginAt == 0 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		if h.now().Sub(time.Unix(loginAt, 0)) > sessionMaxAge {
			session.Clear()
			_ = session.Save()
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	records, err := h.svc.List()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load feedback: %v", err)
		return
	}
	stats := feedback.ComputeStats(records)
	h.render(c, "dashboard.html", gin.H{
		"User":     c.GetString(userKey),
		"Total":    stats.Total,
		"Counts":   stats.StatusCounts(),
		"Records":  records,
		"Rendered": feedback.LocaleTime(h.now()),
	})
}

func (h *Handler) render(c *gin.Context, name string, data gin.H) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("❌ Failed to render %s: %v", name, err)
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.cfg.Username)) == 1
	var passOK bool
	if isBcryptHash(h.cfg.Password) {
		passOK = bcrypt.CompareHashAndPassword([]byte(h.cfg.Password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.Password)) == 1
	}
	return userOK && passOK
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
