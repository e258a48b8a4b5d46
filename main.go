package main

import (
	"FileVault/config"
	"FileVault/internal/handler"
	"FileVault/internal/repo"
	"FileVault/internal/service"
	"FileVault/internal/storage"
	"FileVault/internal/token"
	"FileVault/router"
	"log"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()

	cipher, err := token.NewCipher(config.AppConfig.EncryptionKey, config.AppConfig.EncryptionSalt)
	if err != nil {
		log.Fatal("init token cipher fail", err)
	}

	links := service.NewLinkService(
		repo.Db,
		cipher,
		storage.Default,
		config.AppConfig.BucketName,
		config.AppConfig.LinkTTL,
	)

	r := router.InitRouter(handler.NewDownloadHandler(links))

	r.Run(":8000")
}
