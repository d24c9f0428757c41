package api

import (
	"context"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/api/build"
	"github.com/LambdaTest/jira-reporter/pkg/api/health"
	"github.com/LambdaTest/jira-reporter/pkg/api/jobconfig"
	"github.com/LambdaTest/jira-reporter/pkg/api/mapping"
	"github.com/LambdaTest/jira-reporter/pkg/api/tracker"
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/LambdaTest/jira-reporter/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Router represents the routes for the http server.
type Router struct {
	cfg                      *config.Config
	signalCtx                context.Context
	jobConfigStore           core.JobConfigStore
	testIssueStore           core.TestIssueStore
	jobConfigService         core.JobConfigService
	trackerValidationService core.TrackerValidationService
	issueTracker             core.IssueTracker
	processor                core.BuildProcessor
	logger                   lumber.Logger
}

// New returns a New Router
func New(
	signalCtx context.Context,
	cfg *config.Config,
	dbStores *core.DBStores,
	services *core.Services,
	issueTracker core.IssueTracker,
	processor core.BuildProcessor,
	logger lumber.Logger) Router {
	return Router{
		cfg:                      cfg,
		signalCtx:                signalCtx,
		jobConfigStore:           dbStores.JobConfigStore,
		testIssueStore:           dbStores.TestIssueStore,
		jobConfigService:         services.JobConfigService,
		trackerValidationService: services.TrackerValidationService,
		issueTracker:             issueTracker,
		processor:                processor,
		logger:                   logger,
	}
}

// Handler function will perform all route operations
func (r *Router) Handler() *gin.Engine {
	r.logger.Infof("Setting up routes")
	router := gin.New()
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := configureValidator(v); err != nil {
			r.logger.Fatalf("failed to configure validator %v", err)
		}
	}
	// skip /health and /metrics from logs as they are scraped continuously
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/health", "/metrics"))
	// Recovery middleware recovers from any panics and writes a 500 if there was one.
	router.Use(gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = constants.CorsAllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization", "cache-control", "pragma")
	router.Use(cors.New(corsConfig))
	router.Use(otelgin.Middleware(constants.ServiceName))
	if r.cfg.Env != constants.Prod {
		pprof.Register(router)
	}

	router.GET("/health", health.Handler(r.signalCtx))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	jobRoutes := router.Group("/jobs/:job")
	jobRoutes.GET("/config", jobconfig.HandleFind(r.jobConfigStore, r.logger))
	jobRoutes.PUT("/config", jobconfig.HandleUpdate(r.jobConfigService, r.logger))
	jobRoutes.GET("/mappings/*test", mapping.HandleFind(r.testIssueStore, r.logger))
	jobRoutes.POST("/builds", build.HandleCreate(r.processor, r.logger))

	trackerRoutes := router.Group("/tracker")
	trackerRoutes.POST("/validate", tracker.HandleValidate(r.trackerValidationService, r.logger))
	trackerRoutes.GET("/projects/:projectKey", tracker.HandleFindProject(r.trackerValidationService, r.logger))
	trackerRoutes.GET("/projects/:projectKey/issuetypes", tracker.HandleListIssueTypes(r.trackerValidationService, r.logger))
	trackerRoutes.POST("/validate-fields", tracker.HandleValidateFields(r.trackerValidationService, r.logger))
	trackerRoutes.GET("/statuses", tracker.HandleListStatuses(r.issueTracker, r.logger))

	return router
}
