package server

import (
	"net/http"
	"strings"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/config"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/handler"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlersはルート登録に使うハンドラ一式
type Handlers struct {
	Auth         *handler.AuthHandler
	Category     *handler.CategoryHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Basket       *handler.BasketHandler
	Payment      *handler.PaymentHandler
	Order        *handler.OrderHandler
	Contact      *handler.ContactHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	//公開
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Contact.RegisterRoutes(e)

	//読み取りは公開、書き込みはADMIN
	h.Category.RegisterRoutes(e, cfg, userRepo)
	h.AdminProduct.RegisterRoutes(e, cfg, userRepo)

	//ログイン必須
	h.Basket.RegisterRoutes(e, cfg, userRepo)
	h.Payment.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)

	//アップロード画像
	prefix := strings.TrimRight(cfg.Media.URL, "/")
	if prefix == "" {
		prefix = "/media"
	}
	e.Static(prefix, cfg.Media.Root)
}
