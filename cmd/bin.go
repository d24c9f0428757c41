package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/api"
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/db"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/issuebuilder"
	"github.com/LambdaTest/jira-reporter/pkg/lifecycle"
	"github.com/LambdaTest/jira-reporter/pkg/lockmap"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/LambdaTest/jira-reporter/pkg/metadatacache"
	"github.com/LambdaTest/jira-reporter/pkg/opentelemetry"
	"github.com/LambdaTest/jira-reporter/pkg/redis"
	"github.com/LambdaTest/jira-reporter/pkg/reportqueue"
	"github.com/LambdaTest/jira-reporter/pkg/resultqueue"
	"github.com/LambdaTest/jira-reporter/pkg/server"
	jobconfigz "github.com/LambdaTest/jira-reporter/pkg/service/jobconfig"
	"github.com/LambdaTest/jira-reporter/pkg/service/trackervalidation"
	"github.com/LambdaTest/jira-reporter/pkg/store/jobconfig"
	"github.com/LambdaTest/jira-reporter/pkg/store/testissue"
	"github.com/LambdaTest/jira-reporter/pkg/tracker/jira"
	"github.com/spf13/cobra"
)

// RootCommand will setup and return the root command
func RootCommand() *cobra.Command {
	rootCmd := cobra.Command{
		Use:     "jira-reporter",
		Long:    `jira-reporter raises Jira tickets for failing tests and resolves them once the tests pass again.`,
		Version: constants.BinaryVersion,
		RunE:    run,
	}

	// define flags used for this command
	AttachCLIFlags(&rootCmd)

	return &rootCmd
}

// nolint:funlen,gocyclo
func run(cmd *cobra.Command, args []string) error {
	// a WaitGroup for the goroutines to tell us they've stopped
	wg := sync.WaitGroup{}

	cfg, err := config.Load(cmd)
	if err != nil {
		fmt.Printf("Failed to load config: %v", err)
		return err
	}

	// patch logconfig file location with root level log file location
	if cfg.LogFile != "" {
		cfg.LogConfig.FileLocation = filepath.Join(cfg.LogFile, "jr.log")
	}

	// You can also use logrus implementation
	// by using lumber.InstanceLogrusLogger
	logger, err := lumber.NewLogger(&cfg.LogConfig, cfg.Verbose, lumber.InstanceZapLogger)
	if err != nil {
		log.Printf("could not instantiate logger %s", err.Error())
		return err
	}

	// create a context that we can cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("failed to create database connection %v", err)
		return err
	}
	defer database.Close()

	// initialize tracer
	if cfg.Tracing.OtelEndpoint != "" {
		tracerCleanup := opentelemetry.InitTracer(ctx, cfg, logger)
		defer func() {
			if tracerErr := tracerCleanup(context.Background()); tracerErr != nil {
				logger.Errorf("Failed to cleanup the tracer %v", tracerErr)
			}
		}()
	}

	redisDB, err := redis.New(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("failed to create redis database connection %v", err)
		return err
	}

	issueTracker, err := jira.New(&cfg.Jira, logger)
	if err != nil {
		logger.Errorf("could not instantiate jira client %v", err)
		return err
	}

	cache, err := newMetadataCache(cfg, redisDB, logger)
	if err != nil {
		logger.Errorf("could not instantiate metadata cache %v", err)
		return err
	}

	dbStores := &core.DBStores{
		JobConfigStore: jobconfig.New(database, logger),
		TestIssueStore: testissue.New(database, logger),
	}

	builder := issuebuilder.New(logger)
	controller := lifecycle.New(dbStores.JobConfigStore,
		dbStores.TestIssueStore,
		metadatacache.NewLoader(cache, issueTracker, logger),
		issueTracker,
		lockmap.New(logger),
		builder,
		logger)
	if cfg.Jira.Timeout > 0 {
		controller.RemoteTimeout = cfg.Jira.Timeout
	}

	services := &core.Services{
		JobConfigService:         jobconfigz.New(dbStores.JobConfigStore, dbStores.TestIssueStore, cache, logger),
		TrackerValidationService: trackervalidation.New(issueTracker, builder, logger),
	}

	// create child context so as to close kafka consumers on SIGTERM/SIGINT
	// and fail health API.
	childCtx, childCancel := context.WithCancel(ctx)
	defer childCancel()
	routers := api.New(childCtx, cfg, dbStores, services, issueTracker, controller, logger)

	wg.Add(1)
	// setup http server
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(ctx, &routers, cfg, logger); err != nil {
			logger.Errorf("error while running http server %v", err)
		}
	}()

	if cfg.Kafka.Brokers != "" && cfg.Kafka.ResultsConfig.Topic != "" {
		var reportProducer core.QueueProducer
		if cfg.Kafka.ReportTopic != "" {
			reportProducer = reportqueue.NewProducer(cfg, logger)
			defer reportProducer.Close()
		}
		resultConsumer := resultqueue.New(cfg, controller, reportProducer, logger)
		wg.Add(1)
		// start build results consumer
		go func() {
			defer wg.Done()
			resultConsumer.Run(childCtx)
		}()
	} else {
		logger.Infof("Kafka not configured, build results are accepted over http only")
	}

	// listen for C-c
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	// create channel to mark status of waitgroup
	// this is required to brutally kill application in case of
	// timeout
	done := make(chan struct{})

	// asynchronously wait for all the go routines
	go func() {
		// and wait for all go routines
		wg.Wait()
		logger.Debugf("main: all goroutines have finished.")
		close(done)
	}()
	// wait for signal channel
	<-c
	logger.Debugf("main: received close signal - attempting graceful shutdown ....")
	childCancel()
	// add some delay so as to allow the queue consumer to exit
	time.Sleep(cfg.ShutDownDelay)
	// tell the goroutines to stop
	logger.Debugf("main: telling all goroutines to stop")
	cancel()
	select {
	case <-done:
		logger.Debugf("Go routines exited within timeout")
	case <-time.After(cfg.GracefulTimeout):
		logger.Errorf("Graceful timeout exceeded. Brutally killing the application")
		return errs.ErrTimeoutExceeded
	}
	return nil
}

// newMetadataCache shares schema through redis when it is configured and keeps it in process otherwise.
func newMetadataCache(cfg *config.Config, redisDB core.RedisDB, logger lumber.Logger) (core.MetadataCache, error) {
	if redisDB != nil {
		return metadatacache.NewRedis(redisDB, cfg.MetadataCache.TTL, logger), nil
	}
	return metadatacache.NewLRU(cfg.MetadataCache.Size, logger)
}
