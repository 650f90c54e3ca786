package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	fundhandler "fund_backend/internal/feature/funds/transport/handler"
	platformhandler "fund_backend/internal/platform/http/handler"
)

func NewRouter(funds *fundhandler.FundHandler) *gin.Engine {
	r := gin.Default()

	// ブラウザのダッシュボードから直接叩くため全オリジンを許可
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)

	api := r.Group("/api")
	{
		api.GET("/funds", funds.List)
		api.POST("/funds", funds.Create)
		// 固定パスはワイルドカードより先に登録する
		api.POST("/funds/prices", funds.AddPrice)
		api.GET("/funds/:code", funds.Get)
		api.PUT("/funds/:code", funds.Update)
		api.DELETE("/funds/:code", funds.Delete)
		api.GET("/funds/:code/prices", funds.PriceHistory)
	}

	return r
}
