package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"KINTAI-backend/docs"
	"KINTAI-backend/internal/attendance"
	"KINTAI-backend/internal/dashboard"
	"KINTAI-backend/internal/employees"
	"KINTAI-backend/internal/leave"
	"KINTAI-backend/internal/platform/apierr"
	"KINTAI-backend/internal/platform/auth"
	"KINTAI-backend/internal/platform/db"
	"KINTAI-backend/internal/report"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s version:%s\n", mode, cfg.Version)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("config.yaml の mode は dev か release を指定してください")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	ctx := context.Background()
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatalf("[ERROR] migrate: %v", err)
	}

	loc := cfg.Location()
	secret := []byte(cfg.Auth.JWTSecret)

	empSvc := employees.NewService(conn, auth.NewBcryptHasher(cfg.Auth.BcryptCost), auth.NewJWTIssuer(secret, cfg.TokenTTL()))
	attSvc := attendance.NewService(conn, loc)
	leaveSvc := leave.NewService(conn)
	dashSvc := dashboard.NewService(empSvc, leaveSvc, attSvc)
	reportSvc := report.NewService(attSvc, leaveSvc, loc)

	created, err := empSvc.EnsureAdmin(ctx, employees.BootstrapAdmin{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		log.Fatalf("[ERROR] bootstrap admin: %v", err)
	}
	if created {
		log.Printf("[INFO] bootstrap admin created: %s", cfg.Admin.Email)
	}

	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Location"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// API ドキュメント
	docs.SwaggerInfo.Version = cfg.Version
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 認証不要（ログイン・打刻端末）
	employees.RegisterPublicRoutes(r, empSvc)
	attendance.RegisterPunchRoutes(r, attSvc, empSvc)

	// ログイン済み社員
	authed := r.Group("/", auth.RequireAuth(secret))
	leave.RegisterSelfRoutes(authed, leaveSvc, attSvc.Today)
	dashboard.RegisterSelfRoutes(authed, dashSvc)

	// 管理者
	admin := r.Group("/", auth.RequireAuth(secret), auth.RequireRole(auth.RoleAdmin), employees.RequireAdmin(empSvc))
	employees.RegisterAdminRoutes(admin, empSvc)
	attendance.RegisterAdminRoutes(admin, attSvc)
	leave.RegisterAdminRoutes(admin, leaveSvc)
	dashboard.RegisterAdminRoutes(admin, dashSvc)
	report.RegisterRoutes(admin, reportSvc)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierr.Body{Error: apierr.NotFound("route not found")})
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if !cfg.TLSEnabled() {
			log.Printf("[WARN] certificate is not configured, listening on http://%s", cfg.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal(err)
			}
			return
		}

		// 証明書は config/tls/{dev|release}/ 配下に置く
		certFile := fmt.Sprintf("config/tls/%s/%s", mode, cfg.Certificate.Cert)
		keyFile := fmt.Sprintf("config/tls/%s/%s", mode, cfg.Certificate.Key)
		log.Printf("[INFO] listening on https://%s", cfg.Addr)
		if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
