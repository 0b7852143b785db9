// Copyright 2024-2025 Maykin Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/maykinmedia/archiefbeheer/client"
	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/controller"
	"github.com/maykinmedia/archiefbeheer/db"
	"github.com/maykinmedia/archiefbeheer/metrics"
	mw "github.com/maykinmedia/archiefbeheer/middleware"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/maykinmedia/archiefbeheer/service"
	"github.com/maykinmedia/archiefbeheer/service/destruction"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

func init() {
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
}

func main() {
	cfg, err := config.LoadConfig(os.Getenv("ARCHIEFBEHEER_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogging(&cfg.Technical)
	utils.PrintConfig(*cfg)

	instanceId := cfg.Technical.InstanceId
	if instanceId == "" {
		instanceId = uuid.NewString()
	}
	log.Infof("Starting archiefbeheer instance %s", instanceId)

	cp := db.NewConnectionProvider(&cfg.Database)
	defer cp.Close()

	listRepository := repository.NewDestructionListRepository(cp)
	assigneeRepository := repository.NewAssigneeRepository(cp)
	reviewRepository := repository.NewReviewRepository(cp)
	ledgerRepository := repository.NewLedgerRepository(cp)
	taskRepository := repository.NewTaskRepository(cp)
	lockRepository := repository.NewLockRepository(cp)

	clientPool := client.NewClientPool(cfg.Services, time.Duration(cfg.Destruction.GatewayTimeoutSeconds)*time.Second)

	lockService := service.NewLockService(lockRepository, instanceId)
	eventPublisher := service.NewLogEventPublisher()
	assignmentService := service.NewAssignmentService(assigneeRepository, reviewRepository)
	stateMachine := service.NewStateMachine(listRepository, assignmentService, lockService, eventPublisher)
	reviewService := service.NewReviewService(listRepository, reviewRepository, assignmentService, stateMachine, lockService)
	reportService := service.NewReportService(cfg.Report, listRepository, clientPool)

	gateway := destruction.NewRegistryGateway(clientPool)
	executor := destruction.NewExecutor(gateway, ledgerRepository)
	completer := func(ctx context.Context, listUuid string) error {
		_, err := stateMachine.Transition(ctx, listUuid, service.ActionMarkDeleted, "system")
		return err
	}
	scheduler := destruction.NewScheduler(cfg.Destruction, instanceId,
		listRepository, taskRepository, clientPool, executor, reportService, completer)
	recoveryService := destruction.NewRecoveryService(listRepository, taskRepository)

	listService := service.NewDestructionListService(cfg.Features,
		listRepository, taskRepository, assignmentService, stateMachine, scheduler, clientPool)

	listController := controller.NewDestructionListController(listService)
	reviewController := controller.NewReviewController(reviewService)
	healthController := controller.NewHealthController(cp, clientPool)

	// reclaim whatever a previous crash of this instance left behind, then
	// keep sweeping on the configured schedule
	destruction.RunSweep(recoveryService)()
	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc(cfg.Destruction.RecoverySweepSchedule, destruction.RunSweep(recoveryService)); err != nil {
		log.Fatalf("Invalid recovery sweep schedule %q: %v", cfg.Destruction.RecoverySweepSchedule, err)
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	metrics.RegisterAllPrometheusApplicationMetrics()

	router := mux.NewRouter()
	router.Use(mw.PrometheusMiddleware)
	registerRoutes(router, listController, reviewController, healthController)

	server := &http.Server{
		Addr: cfg.Technical.ListenAddress,
		Handler: handlers.CompressHandler(
			handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	utils.SafeAsync(func() {
		log.Infof("Listening on %s", cfg.Technical.ListenAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Http server failed: %v", err)
		}
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}

func registerRoutes(router *mux.Router,
	listController controller.DestructionListController,
	reviewController controller.ReviewController,
	healthController controller.HealthController) {

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/statuses", listController.GetStatuses).Methods(http.MethodGet)

	api.HandleFunc("/destruction-lists", listController.CreateList).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists", listController.ListLists).Methods(http.MethodGet)
	api.HandleFunc("/destruction-lists/{listUuid}", listController.GetList).Methods(http.MethodGet)
	api.HandleFunc("/destruction-lists/{listUuid}", listController.UpdateList).Methods(http.MethodPatch)
	api.HandleFunc("/destruction-lists/{listUuid}", listController.DeleteList).Methods(http.MethodDelete)
	api.HandleFunc("/destruction-lists/{listUuid}/items", listController.GetListItems).Methods(http.MethodGet)
	api.HandleFunc("/destruction-lists/{listUuid}/progress", listController.GetProgress).Methods(http.MethodGet)

	api.HandleFunc("/destruction-lists/{listUuid}/submit", listController.Submit).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists/{listUuid}/abort", listController.Abort).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists/{listUuid}/mark-final", listController.MarkFinal).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists/{listUuid}/archive/accept", listController.ArchivistAccept).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists/{listUuid}/archive/reject", listController.ArchivistReject).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists/{listUuid}/reassign", listController.Reassign).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists/{listUuid}/planned-destruction-date", listController.SetPlannedDestructionDate).Methods(http.MethodPut)
	api.HandleFunc("/destruction-lists/{listUuid}/destroy", listController.StartDestruction).Methods(http.MethodPost)

	api.HandleFunc("/destruction-lists/{listUuid}/reviews", reviewController.SubmitReview).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists/{listUuid}/reviews", reviewController.GetReviews).Methods(http.MethodGet)
	api.HandleFunc("/destruction-lists/{listUuid}/co-reviews", reviewController.SubmitCoReview).Methods(http.MethodPost)
	api.HandleFunc("/destruction-lists/{listUuid}/co-reviews", reviewController.GetCoReviews).Methods(http.MethodGet)
	api.HandleFunc("/destruction-lists/{listUuid}/review-response", reviewController.SubmitReviewResponse).Methods(http.MethodPost)
	api.HandleFunc("/reviews/{reviewUuid}/response", reviewController.GetReviewResponse).Methods(http.MethodGet)

	router.HandleFunc("/live", healthController.HandleLivenessRequest).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthController.HandleReadinessRequest).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

func configureLogging(technical *config.TechnicalParameters) {
	level, err := log.ParseLevel(technical.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if technical.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   technical.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
}
