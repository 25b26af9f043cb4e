package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ecadmin/internal/config"
	"ecadmin/internal/handler"
	"ecadmin/internal/infra/db"
	"ecadmin/internal/infra/logger"
	"ecadmin/internal/infra/metrics"
	infraRepo "ecadmin/internal/infra/repository"
	"ecadmin/internal/infra/token"
	"ecadmin/internal/server"
	"ecadmin/internal/usecase"
	"ecadmin/internal/validator"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.GoEnv, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(cfg config.Config, log zerolog.Logger) error {
	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Error().Err(err).Msg("close db")
		}
	}()
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	m := metrics.New()

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	discountRepo := infraRepo.NewProductDiscountGormRepository(gormDB)
	announcementRepo := infraRepo.NewAnnouncementGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	jwtm := token.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	hasher := usecase.NewBcryptPasswordHasher(12)
	v := validator.New()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, hasher, jwtm, v)
	userUC := usecase.NewUserUsecase(txm, userRepo, hasher, v)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	productUC := usecase.NewProductUsecase(productRepo)
	announcementUC := usecase.NewAnnouncementUsecase(announcementRepo)
	discountUC := usecase.NewDiscountUsecase(txm, discountRepo)
	orderUC := usecase.NewOrderUsecase(txm, m)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)
	resolver := usecase.NewPrincipalResolver(jwtm, userRepo)

	//Handler生成
	srv := server.New(cfg, log, m, resolver, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Me:           handler.NewMeHandler(userUC, addressUC),
		Product:      handler.NewProductHandler(productUC),
		Announcement: handler.NewAnnouncementHandler(announcementUC),
		Discount:     handler.NewDiscountHandler(discountUC),
		User:         handler.NewUserHandler(userUC),
		Order:        handler.NewOrderHandler(orderUC),
		AuditLog:     handler.NewAuditLogHandler(auditUC),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return srv.Shutdown(cfg.ShutdownTimeout)
	})
	return g.Wait()
}
