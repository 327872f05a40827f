package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var assets embed.FS

// Register 는 내장된 채팅 UI 를 / 와 /static/* 에 연결한다.
func Register(r *gin.Engine) {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(static))
	})
}
