package router

import (
	"net/http"

	"github.com/HamzaAshfaq01/sellsgoods/internal/handler"
	"github.com/HamzaAshfaq01/sellsgoods/internal/middleware"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/metrics"
	"github.com/HamzaAshfaq01/sellsgoods/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Users      *handler.UserHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Orders     *handler.OrderHandler

	UserService service.UserService
	JWTSecret   string
	Metrics     *metrics.Manager
	Tracing     bool
	ServiceName string

	// UploadsDir serves stored images as static files when the disk
	// backend is active. Empty disables the route.
	UploadsDir string

	Log logger.Logger
}

func New(d Deps) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(middleware.RequestLogger(d.Log))
	mux.Use(chimiddleware.Recoverer)
	if d.Metrics != nil {
		mux.Use(middleware.Metrics(d.Metrics))
	}
	if d.Tracing {
		mux.Use(middleware.Tracing(d.ServiceName))
	}

	auth := middleware.JWTAuth(d.JWTSecret, d.UserService, d.Log)

	mux.Route("/api", func(api chi.Router) {
		api.Route("/users", func(r chi.Router) {
			r.Post("/", d.Users.HandleRegister)
			r.Post("/login", d.Users.HandleLogin)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/profile", d.Users.HandleGetProfile)
				r.Put("/profile", d.Users.HandleUpdateProfile)
				r.Put("/profile/change-password", d.Users.HandleChangePassword)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", d.Users.HandleListUsers)
					r.Delete("/{id}", d.Users.HandleDeleteUser)
				})
			})
		})

		api.Route("/category", func(r chi.Router) {
			r.Get("/", d.Categories.HandleListAll)
			r.Get("/listingCategories", d.Categories.HandleListPaged)
			r.Get("/{id}", d.Categories.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(auth, middleware.AdminOnly)
				r.Post("/", d.Categories.HandleCreate)
				r.Put("/{id}", d.Categories.HandleUpdate)
				r.Delete("/{id}", d.Categories.HandleDelete)
			})
		})

		api.Route("/products", func(r chi.Router) {
			r.Get("/", d.Products.HandleListAll)
			r.Get("/search", d.Products.HandleSearch)
			r.Get("/getproducts", d.Products.HandleGrouped)
			r.Get("/getproductsbycategory/{category}", d.Products.HandleListByCategory)
			r.Get("/{id}", d.Products.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", d.Products.HandleCreate)
				r.Get("/seller", d.Products.HandleListSeller)
				r.Put("/{id}", d.Products.HandleUpdate)
				r.Delete("/{id}", d.Products.HandleDelete)
			})
		})

		api.Route("/orders", func(r chi.Router) {
			r.Post("/", d.Orders.HandleCreate)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/", d.Orders.HandleList)
				r.Get("/{id}", d.Orders.HandleGet)
				r.Put("/{id}", d.Orders.HandleUpdateStatus)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Delete("/{id}", d.Orders.HandleDelete)
				})
			})
		})
	})

	if d.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadsDir)))
		mux.Get("/uploads/*", fs.ServeHTTP)
	}

	return mux
}
