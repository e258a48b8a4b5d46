package router

import (
	"FileVault/internal/handler"
	"FileVault/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter(dl *handler.DownloadHandler) *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/register", handler.Register)
		api.GET("/activate", handler.Activate)
		api.POST("/login", handler.Login)

		auth := api.Group("")
		auth.Use(utils.AuthMiddleware())

		file := auth.Group("/file")
		{
			file.POST("/upload", handler.UploadFile)
			file.GET("/list", handler.ListFiles)
			file.GET("/detail/:fileID", handler.FileDetail)
			file.POST("/delete/:fileID", handler.DeleteFile)
		}

		files := auth.Group("/files")
		{
			files.POST("/download/:fileID", dl.GenerateDownloadLink)
			files.GET("/secure-download/:token", dl.SecureDownload)
		}
	}
	return r
}
