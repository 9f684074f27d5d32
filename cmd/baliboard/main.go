package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/baliboard/baliboard/config"
	"github.com/baliboard/baliboard/internal/adminapi"
	"github.com/baliboard/baliboard/internal/app"
	"github.com/baliboard/baliboard/internal/webserver"
)

var (
	h        bool
	showVer  bool
	initDb   bool
	confFile string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.BoolVar(&showVer, "v", false, "print version")
	flag.BoolVar(&initDb, "initdb", false, "drop and recreate all tables, then exit")
	flag.StringVar(&confFile, "c", "baliboard.yml", "config file path")
}

var version = "dev"

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		return
	}
	if showVer {
		fmt.Println("baliboard", version)
		return
	}

	cfg := config.LoadConfig(confFile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if initDb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	server := webserver.Init(application)
	adminapi.InitRouter()

	go func() {
		if err := server.Start(); err != nil {
			zap.S().Errorf("web server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	zap.S().Info("shutting down")
	server.Shutdown()
}
