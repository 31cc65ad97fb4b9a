package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/postpilot/postpilot/contentgen"
	coreConfig "github.com/postpilot/postpilot/core/config"
	coreDB "github.com/postpilot/postpilot/core/database"
	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainHealth "github.com/postpilot/postpilot/domains/health"
	domainPost "github.com/postpilot/postpilot/domains/post"
	domainScheduler "github.com/postpilot/postpilot/domains/scheduler"
	domainUser "github.com/postpilot/postpilot/domains/user"
	"github.com/postpilot/postpilot/integrations/twitter"
	"github.com/postpilot/postpilot/pkg/crypto"
	"github.com/postpilot/postpilot/pkg/utils"
	"github.com/postpilot/postpilot/scheduler"
	"github.com/postpilot/postpilot/usecase"
)

var (
	db *gorm.DB

	campaignUsecase  domainCampaign.ICampaignUsecase
	postUsecase      domainPost.IPostUsecase
	userUsecase      domainUser.IUserUsecase
	schedulerUsecase domainScheduler.ISchedulerUsecase
	healthUsecase    domainHealth.IHealthUsecase

	registry *scheduler.Registry
)

var rootCmd = &cobra.Command{
	Use:   "postpilot",
	Short: "AI-assisted social media campaign scheduler",
	Long: `PostPilot generates and publishes social media posts on a recurring
schedule per campaign, with AI-backed content generation and template fallback.`,
}

func init() {
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.OnInitialize(initApp)
}

func initApp() {
	cfg, err := coreConfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("[APP] Could not load configuration: %v", err)
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	crypto.SetEncryptionKey(cfg.Security.EncryptionKey)

	if err := utils.CreateFolder(cfg.Paths.Storages); err != nil {
		logrus.Fatalf("[APP] Could not create storage folder: %v", err)
	}

	db, err = coreDB.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[APP] Could not open database: %v", err)
	}

	campaignUsecase = usecase.NewCampaignService(db)
	postUsecase = usecase.NewPostService(db)
	userUsecase = usecase.NewUserService(db, twitter.NewGateway())

	producer := buildContentService(cfg)
	executor := scheduler.NewExecutor(campaignUsecase, postUsecase, userUsecase, producer, twitter.NewPublisher())
	registry = scheduler.NewRegistry(campaignUsecase, postUsecase, executor,
		time.Duration(cfg.Scheduler.StalledPostMinutes)*time.Minute)
	schedulerUsecase = registry
	healthUsecase = usecase.NewHealthService(db, schedulerUsecase, cfg.App.Version)

	logrus.Infof("[APP] PostPilot %s initialized (db driver: %s)", cfg.App.Version, cfg.Database.Driver)
}

func buildContentService(cfg *coreConfig.Config) *contentgen.Service {
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.GeminiAPIKey == "" {
			logrus.Warn("[APP] GEMINI_API_KEY not set, content generation will use fallbacks")
		}
		return contentgen.NewService("gemini", contentgen.NewGeminiProvider(cfg.AI.GeminiAPIKey, cfg.AI.Model))
	case "openai":
		if cfg.AI.OpenAIAPIKey == "" {
			logrus.Warn("[APP] OPENAI_API_KEY not set, content generation will use fallbacks")
		}
		return contentgen.NewService("openai", contentgen.NewOpenAIProvider(cfg.AI.OpenAIAPIKey, cfg.AI.Model))
	default:
		logrus.Warnf("[APP] Unknown AI provider %q, content generation disabled", cfg.AI.Provider)
		return contentgen.NewService(cfg.AI.Provider, nil)
	}
}

// StopApp releases long-lived resources on shutdown.
func StopApp() {
	if registry != nil {
		registry.Stop()
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
