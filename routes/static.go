package routes

import (
	"io/fs"
	"log"
	"net/http"

	"github.com/random0602/DailyGlow/web"

	"github.com/gin-gonic/gin"
)

// RegisterStaticRoutes serves the embedded browser client. The sign-in page
// is the site root; every other page and asset lives under /static.
func RegisterStaticRoutes(router *gin.Engine) {
	assets, err := fs.Sub(web.Assets, "static")
	if err != nil {
		log.Printf("Static assets unavailable: %v", err)
		return
	}

	router.StaticFS("/static", http.FS(assets))
	router.GET("/", func(c *gin.Context) {
		page, err := fs.ReadFile(assets, "index.html")
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}
