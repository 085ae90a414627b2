package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"MyHome/internal/config"
	"MyHome/internal/logger"
	"MyHome/internal/metrics"
	"MyHome/internal/middleware"
	"MyHome/internal/pkg"
	"MyHome/internal/repository/memory"
	"MyHome/internal/repository/mysql"
	"MyHome/internal/repository/redis"
	"MyHome/internal/router"
	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewDefault()
	}

	st, closeStores, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	var mailer pkg.Mailer = &pkg.LogMailer{Log: log}
	if cfg.Mail.Enabled {
		mailer = pkg.NewSMTPMailer(cfg.Mail)
	}

	sender := service.LogSender(log)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := pkg.NewKafkaProducer(cfg.Kafka)
		defer func() { _ = producer.Close() }()
		sender = service.KafkaSender(producer)
	}

	tokens := service.NewSecurityTokenService(st.Tokens, cfg.Tokens.EmailConfirmTTL, cfg.Tokens.ResetTTL)
	mail := service.NewMailService(mailer, cfg.Mail.ConfirmURL, log)
	svc := router.Services{
		Users:       service.NewUserService(st, tokens, mail, log),
		Auth:        service.NewAuthService(st, pkg.NewJWTEncoderDecoder(cfg.JWT.Secret, cfg.JWT.Expiration), cfg.JWT.Expiration),
		Communities: service.NewCommunityService(st),
		Houses:      service.NewHouseService(st),
		Documents:   service.NewDocumentService(st, cfg.Files, m),
		Amenities:   service.NewAmenityService(st),
		Bookings:    service.NewBookingService(st),
		Payments:    service.NewPaymentService(st),
	}

	opt := router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		Metrics:        m,
		MetricsPath:    cfg.Metrics.Path,
		Log:            log,
	}
	if cfg.RateLimit.Enabled {
		opt.LoginLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	}

	// 后台任务：outbox 投递和令牌清理
	relayer := service.NewOutboxRelayer(st.Outbox, sender, cfg.Kafka, log, m)
	go relayer.Run(ctx)

	purger := service.NewTokenPurger(st.Tokens, cfg.Tokens.PurgeCron, log)
	if err := purger.Start(); err != nil {
		return fmt.Errorf("failed to schedule token purge: %w", err)
	}
	defer purger.Stop()

	gin.SetMode(gin.ReleaseMode)
	engine, err := router.InitRouter(svc, opt)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStores mysql 驱动下会话存 redis，memory 驱动全部放在进程内
func openStores(cfg *config.Config, log *zap.Logger) (service.Stores, func(), error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("using in-memory storage, data is lost on restart")
		mem := memory.New()
		return service.Stores{
			Users:       mem.Users(),
			Communities: mem.Communities(),
			Houses:      mem.Houses(),
			Members:     mem.Members(),
			Documents:   mem.Documents(),
			Amenities:   mem.Amenities(),
			Bookings:    mem.Bookings(),
			Payments:    mem.Payments(),
			Tokens:      mem.SecurityTokens(),
			Sessions:    mem.Sessions(),
			Outbox:      mem.Outbox(),
		}, func() {}, nil
	}

	db, err := mysql.InitDB(cfg.Database)
	if err != nil {
		return service.Stores{}, nil, fmt.Errorf("failed to connect mysql: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			return service.Stores{}, nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	rdb, err := redis.Init(cfg.Redis)
	if err != nil {
		return service.Stores{}, nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	closeAll := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = rdb.Close()
	}
	return service.Stores{
		Users:       &mysql.UserRepository{DB: db},
		Communities: &mysql.CommunityRepository{DB: db},
		Houses:      &mysql.HouseRepository{DB: db},
		Members:     &mysql.MemberRepository{DB: db},
		Documents:   &mysql.DocumentRepository{DB: db},
		Amenities:   &mysql.AmenityRepository{DB: db},
		Bookings:    &mysql.BookingRepository{DB: db},
		Payments:    &mysql.PaymentRepository{DB: db},
		Tokens:      &mysql.SecurityTokenRepository{DB: db},
		Sessions:    &redis.SessionRepository{RDB: rdb},
		Outbox:      &mysql.OutboxRepository{DB: db},
	}, closeAll, nil
}
