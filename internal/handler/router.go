package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/locshare/internal/middleware"
)

type RouterDeps struct {
	Shares *ShareHandler
	// ShellFS serves the browser shell; nil disables the non-API surface.
	ShellFS fs.FS
	// CORSAllowlist limits cross-origin access; empty allows any origin.
	CORSAllowlist []string
	// CreateWindow rate-limits share creation per ip; zero disables it.
	CreateWindow time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(deps.CORSAllowlist))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	api := router.Group("/api")
	api.POST("/share", middleware.RateLimit(deps.CreateWindow), deps.Shares.Create)
	api.GET("/share/:id", deps.Shares.Get)

	if deps.ShellFS != nil {
		// served as raw bytes: http.FileServer would redirect /index.html
		// to /, and /share/:id must answer with the shell itself
		page, err := fs.ReadFile(deps.ShellFS, "index.html")
		if err != nil {
			panic(err)
		}
		shell := func(c *gin.Context) {
			c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		}
		router.GET("/", shell)
		// the shell itself fetches /api/share/:id and renders the marker
		router.GET("/share/:id", shell)
		router.StaticFS("/static", http.FS(mustSub(deps.ShellFS, "static")))
	}
	return router
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
