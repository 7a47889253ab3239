package router

import (
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(sessionHandler *handler.SessionHandler, paperHandler *handler.PaperHandler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
	}))

	api := r.Group("/api")
	{
		// セッション・評価フロー
		sessions := api.Group("/session")
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.POST("/:token/start", sessionHandler.StartSlot)
			sessions.POST("/:token/continue", sessionHandler.StartSlot)
			sessions.POST("/:token/complete", sessionHandler.Complete)
			sessions.POST("/:token/interrupt", sessionHandler.Interrupt)
			sessions.POST("/:token/quit", sessionHandler.Quit)
		}

		// 参照系
		api.GET("/participants/:id/progress", sessionHandler.GetProgress)
		papers := api.Group("/papers")
		{
			papers.GET("/:id", paperHandler.GetPaper)
			papers.GET("/:id/pdf", paperHandler.DownloadPDF)
		}
	}

	return r
}
