package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	coreConfig "github.com/postpilot/postpilot/core/config"
	"github.com/postpilot/postpilot/ui/rest"
	"github.com/postpilot/postpilot/ui/rest/middleware"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the campaign scheduling API over HTTP",
	Run:   restServer,
}

func init() {
	restCmd.Flags().String("basic-auth", "", "Basic auth for API (format: user:pass,user2:pass2)")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) {
	if baFlag, _ := cmd.Flags().GetString("basic-auth"); baFlag != "" {
		coreConfig.Global.App.BasicAuth = strings.Split(baFlag, ",")
	}

	fiberConfig := fiber.Config{
		EnableTrustedProxyCheck: true,
		Network:                 "tcp",
		AppName:                 "PostPilot Engine",
		ServerHeader:            "Hidden",
	}

	if len(coreConfig.Global.App.TrustedProxies) > 0 {
		fiberConfig.TrustedProxies = coreConfig.Global.App.TrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedHost
	}

	app := fiber.New(fiberConfig)

	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.Recovery())
	app.Use(limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if coreConfig.Global.App.Debug {
		app.Use(logger.New())
	}

	apiGroup := app.Group(coreConfig.Global.App.BasePath + "/api")

	if len(coreConfig.Global.App.BasicAuth) > 0 {
		account := make(map[string]string)
		for _, basicAuth := range coreConfig.Global.App.BasicAuth {
			ba := strings.Split(basicAuth, ":")
			if len(ba) != 2 {
				logrus.Fatalln("Basic auth is not valid, please use the format <user>:<secret>")
			}
			account[ba[0]] = ba[1]
		}

		apiGroup.Use(basicauth.New(basicauth.Config{
			Users: account,
			Next: func(c *fiber.Ctx) bool {
				// Allow CORS preflight without credentials.
				return c.Method() == fiber.MethodOptions
			},
		}))
	}

	rest.InitRestCampaign(apiGroup, campaignUsecase, postUsecase, schedulerUsecase)
	rest.InitRestPost(apiGroup, postUsecase, campaignUsecase, schedulerUsecase)
	rest.InitRestUser(apiGroup, userUsecase)
	rest.InitRestIntegration(apiGroup, userUsecase)
	rest.InitRestScheduler(apiGroup, schedulerUsecase)
	rest.InitRestHealth(apiGroup, healthUsecase)

	// Rebuild timers for campaigns stored as active, then start the
	// global reconciliation tick.
	registry.StartSafetyNet()
	go func() {
		if err := registry.ReconcileOnBoot(context.Background()); err != nil {
			logrus.WithError(err).Error("[APP] Boot reconciliation failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Termination signal received, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
		StopApp()
	}()

	if err := app.Listen(":" + coreConfig.Global.App.Port); err != nil {
		logrus.Fatalf("[REST] Server stopped: %v", err)
	}
}
