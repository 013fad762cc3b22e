package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cppla/mforum/config"
	"github.com/cppla/mforum/routes"
	"github.com/cppla/mforum/storage"
	"github.com/cppla/mforum/utils"
)

func main() {
	cfgPath := config.DefaultPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	blobs, err := openAvatarStore(cfg)
	if err != nil {
		utils.Sugar.Fatalf("avatar store init failed: %v", err)
	}

	r := routes.SetupRouter(cfg, db, blobs)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

// openAvatarStore picks the avatar blob backend named in the configuration.
func openAvatarStore(cfg config.AppConfig) (storage.BlobStore, error) {
	switch strings.ToLower(cfg.AvatarBackend) {
	case "redis":
		client, err := storage.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		utils.Sugar.Infof("avatars stored in redis %s:%d db %d", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)
		return storage.NewRedisStore(client, "avatar:"), nil
	default:
		dir := filepath.Join(cfg.UploadDir, "avatars")
		utils.Sugar.Infof("avatars stored under %s", dir)
		store, err := storage.NewLocalStore(dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
