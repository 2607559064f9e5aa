package api

import (
	"context"
	"html"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/LJTian/LunchHub/internal/presenter"
	"github.com/LJTian/LunchHub/internal/scheduler"
	"github.com/gin-gonic/gin"
)

// Runner 执行抓取或完整的发送任务，由 scheduler.Job 实现
type Runner interface {
	Collect() []menu.Menu
	Run(ctx context.Context, force bool) (scheduler.Report, error)
}

// MenuCache 菜单短期缓存，由 storage.Store 实现
type MenuCache interface {
	CachedMenus(ctx context.Context, day time.Time) ([]menu.Menu, bool)
	CacheMenus(ctx context.Context, day time.Time, menus []menu.Menu) error
}

type Server struct {
	job   Runner
	cache MenuCache
	now   func() time.Time
}

// NewServer cache 可为 nil，此时每次请求都会重新抓取
func NewServer(job Runner, cache MenuCache) *Server {
	return &Server{job: job, cache: cache, now: time.Now}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/menus", s.listMenus)
		v1.GET("/menus/preview", s.previewMenus)
		v1.POST("/send", s.send)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// menus 优先读缓存；refresh=1 时强制重新抓取
func (s *Server) menus(c *gin.Context) []menu.Menu {
	ctx := c.Request.Context()
	today := s.now()
	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	if s.cache != nil && !refresh {
		if cached, ok := s.cache.CachedMenus(ctx, today); ok {
			return cached
		}
	}

	menus := s.job.Collect()
	if s.cache != nil {
		if err := s.cache.CacheMenus(ctx, today, menus); err != nil {
			log.Printf("warn: cache menus: %v", err)
		}
	}
	return menus
}

func (s *Server) listMenus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    s.menus(c),
	})
}

func (s *Server) previewMenus(c *gin.Context) {
	// 菜名来自第三方网站，先转义再放进本站页面
	body := presenter.RenderHTML(presenter.EscapeMenus(s.menus(c)))
	page := "<html><head><meta charset=\"utf-8\"><title>" + html.EscapeString(presenter.Subject(s.now())) + "</title></head><body>" + body + "</body></html>"
	c.Header("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// send 立即执行一次发送任务；force=1 时忽略当天已发送标记
func (s *Server) send(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	report, err := s.job.Run(c.Request.Context(), force)
	if err != nil {
		log.Printf("manual send error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    "send_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": gin.H{
			"subject": report.Subject,
			"sent":    report.Sent,
			"skipped": report.Skipped,
			"menus":   report.Menus,
		},
	})
}
