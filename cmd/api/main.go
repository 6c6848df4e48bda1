package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/config"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/handler"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/cache"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/db"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/gateway"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/invoice"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/mailer"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/rabbitmq"
	infraRepo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/repository"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/storage"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/server"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"
	auth "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	log.SetHeader(`{"time":"${time_rfc3339}","level":"${level}","file":"${short_file}","line":"${line}"}`)

	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
	log.Info("server stopped")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	mediaRepo := infraRepo.NewProductMediaGormRepository(gormDB)
	basketRepo := infraRepo.NewBasketGormRepository(gormDB)
	basketItemRepo := infraRepo.NewBasketItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)
	contactRepo := infraRepo.NewContactGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Redis（任意）
	var productCache repository.ProductCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer rdb.Close()
		productCache = cache.NewProductCache(rdb, cfg.Redis.TTL)
		log.Infof("product cache enabled (%s)", cfg.Redis.Addr)
	}

	//RabbitMQ（任意）
	var publisher usecase.EventPublisher
	var rabbit *rabbitmq.Publisher
	if cfg.RabbitMQ.URL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Warnf("rabbitmq disabled: %v", err)
		} else {
			defer pub.Close()
			rabbit = pub
			publisher = pub
		}
	}

	//メール（任意）
	var invoiceMailer usecase.InvoiceMailer
	if cfg.Mail.Enabled() {
		invoiceMailer = mailer.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.CC)
	} else {
		log.Warn("EMAIL_HOST is not set; invoice mails will fail")
	}

	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.Timeout)
	mediaStorage := storage.NewLocalStorage(cfg.Media.Root, cfg.Media.URL)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, auth.NewBcryptPasswordHasher(12))
	loginUC := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL), clock)
	catalogUC := usecase.NewCatalogUsecase(categoryRepo, productRepo, mediaRepo, productCache, mediaStorage)
	basketUC := usecase.NewBasketUsecase(basketRepo, basketItemRepo, productRepo)
	paymentUC := usecase.NewPaymentUsecase(txm, basketRepo, basketItemRepo, paymentRepo, gw, publisher, idGen, cfg.Gateway.Currency)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo, userRepo, invoice.NewRenderer("HHH Perfumes"), invoiceMailer)
	contactUC := usecase.NewContactUsecase(contactRepo)

	//Handler生成
	e := server.New(cfg, userRepo, server.Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC),
		Category:     handler.NewCategoryHandler(catalogUC),
		Product:      handler.NewProductHandler(catalogUC),
		AdminProduct: handler.NewAdminProductHandler(catalogUC),
		Basket:       handler.NewBasketHandler(basketUC),
		Payment:      handler.NewPaymentHandler(paymentUC),
		Order:        handler.NewOrderHandler(orderUC),
		Contact:      handler.NewContactHandler(contactUC),
	})

	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//サーバーとRabbitMQの再接続を同じctxで止める
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, e, addr)
	})
	if rabbit != nil {
		g.Go(func() error {
			return rabbit.Watch(gctx, cfg.RabbitMQ.RetryInterval)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
