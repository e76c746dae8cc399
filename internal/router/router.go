package router

import (
	"time"

	"kooltpv/internal/config"
	"kooltpv/internal/handler"
	"kooltpv/internal/middleware"
	"kooltpv/internal/repository"
	"kooltpv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	cierreRepo := repository.NewCierreRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	parametroRepo := repository.NewParametroRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	fidelizacionSvc := service.NewFidelizacionService(parametroRepo, productoRepo, clienteRepo, ticketRepo)
	ticketSvc := service.NewTicketService(ticketRepo, clienteRepo, fidelizacionSvc)
	informeSvc := service.NewInformeService(ticketRepo)
	cierreSvc := service.NewCierreService(ticketRepo, cierreRepo, informeSvc, fidelizacionSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ticketsH := handler.NewTicketHandler(ticketSvc)
	informesH := handler.NewInformeHandler(informeSvc, fidelizacionSvc)
	cierresH := handler.NewCierreHandler(cierreSvc)
	fidelizacionH := handler.NewFidelizacionHandler(fidelizacionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		cualquiera := middleware.RequireRole("cajero", "supervisor", "administrador")
		supervision := middleware.RequireRole("supervisor", "administrador")

		// Tickets — every role sells; reading windows is open to all roles too
		// so a cashier can reprint a ticket.
		v1.POST("/tickets", cualquiera, ticketsH.Guardar)
		v1.GET("/tickets", cualquiera, ticketsH.Listar)
		v1.GET("/tickets/:id", cualquiera, ticketsH.Obtener)

		// Loyalty preview while the cart is open
		v1.POST("/fidelizacion/simulacion", cualquiera, fidelizacionH.Simular)

		// Reports — supervision only
		informes := v1.Group("/informes", supervision)
		{
			informes.GET("/iva", informesH.IVA)
			informes.GET("/ventas", informesH.Ventas)
			informes.GET("/cajeros", informesH.Cajeros)
			informes.GET("/proveedores", informesH.Proveedores)
			informes.GET("/puntos", informesH.Puntos)
		}

		// Closings — a cashier may run their own Z, history needs supervision
		cierres := v1.Group("/cierres")
		{
			cierres.POST("", cualquiera, cierresH.Computar)
			cierres.GET("", supervision, cierresH.Historial)
			cierres.GET("/:id", supervision, cierresH.Detalle)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.PATCH("/:id/reactivar", authH.ReactivarUsuario)
		}
	}

	return r
}
