package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vxsahu/crm-system/config"
	"github.com/vxsahu/crm-system/internal/adminapi"
	"github.com/vxsahu/crm-system/internal/app"
	"github.com/vxsahu/crm-system/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "display help")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "crm-system.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, DANGER!!!")
)

var (
	BuildVersion = "latest"
)

func printHelp() {
	if *h {
		fmt.Fprintf(os.Stderr, "crm-system usage:\n")
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()

	if *showVer {
		fmt.Println(BuildVersion)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application)
	adminapi.InitRouter()

	if err := webserver.Listen(); err != nil {
		zap.S().Fatal(err)
	}
}
