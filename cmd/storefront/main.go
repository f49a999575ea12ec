package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/d085/storefront/config"
	"github.com/d085/storefront/internal/adminapi"
	"github.com/d085/storefront/internal/app"
	"github.com/d085/storefront/internal/cart"
	"github.com/d085/storefront/internal/imagestore"
	"github.com/d085/storefront/internal/mailer"
	"github.com/d085/storefront/internal/otp"
	"github.com/d085/storefront/internal/shopapi"
	"github.com/d085/storefront/internal/webserver"
)

var (
	cfile  = flag.String("c", "storefront.yml", "config file")
	initdb = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*cfile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		fmt.Println("database initialized")
		return
	}

	db := application.DB()

	codes := otp.NewService(
		otp.NewGormCodeRepository(db),
		otp.NewGormAccountRepository(db),
		mailer.NewSender(cfg.Smtp),
		cfg.Web.BaseURL,
	)

	var images imagestore.Destroyer = imagestore.Noop{}
	if cfg.Store.ImageStoreURL != "" {
		images = imagestore.NewClient(cfg.Store.ImageStoreURL)
	}

	storage, err := cart.NewBoltStorage(filepath.Join(cfg.System.Workdir, "data", "carts.db"))
	if err != nil {
		zap.S().Fatalf("failed to open cart storage: %v", err)
	}
	defer storage.Close()

	webserver.Init(application)
	adminapi.Register(images, codes)
	shopapi.Register(storage, cfg.Store.Name)

	go func() {
		if err := webserver.Listen(); err != nil {
			zap.S().Fatalf("web server error: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	zap.S().Info("shutting down")
}
