// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"fmt"
	"net/http"

	_ "github.com/matt-dz/foodgram/docs"
	"github.com/matt-dz/foodgram/internal/api/middleware"
	"github.com/matt-dz/foodgram/internal/api/routes/auth"
	"github.com/matt-dz/foodgram/internal/api/routes/ingredients"
	"github.com/matt-dz/foodgram/internal/api/routes/ping"
	"github.com/matt-dz/foodgram/internal/api/routes/recipes"
	"github.com/matt-dz/foodgram/internal/api/routes/tags"
	"github.com/matt-dz/foodgram/internal/api/routes/users"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	serverPort = 8080
)

func addDocs(r *chi.Mux, serverAddr string) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/api/swagger/doc.json", serverAddr)),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Allow GET to serve Swagger
		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		// Block anything else
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
}

// addFiles serves the local image volume. S3 backends serve files
// themselves, so nothing is mounted for them.
func addFiles(router *chi.Mux, environment *env.Env) {
	local, ok := environment.FileStore.(*filestore.Local)
	if !ok {
		return
	}
	fileServer := http.StripPrefix(local.URLPrefix(), http.FileServer(http.Dir(local.BaseDirectory())))
	router.Mount(local.URLPrefix(), fileServer)
}

func addRoutes(router *chi.Mux) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Route("/auth/token", func(r chi.Router) {
			r.Post("/login", auth.HandleLogin)
			r.Post("/logout", auth.HandleLogout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.HandleCreateUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth)

				r.Get("/", users.HandleListUsers)
				r.Get("/{id}", users.HandleGetUser)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Get("/me", users.HandleGetMe)
				r.Post("/set_password", users.HandleSetPassword)
				r.Get("/subscriptions", users.HandleListSubscriptions)
				r.Post("/{id}/subscribe", users.HandleSubscribe)
				r.Delete("/{id}/subscribe", users.HandleUnsubscribe)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.HandleListTags)
			r.Get("/{id}", tags.HandleGetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredients.HandleListIngredients)
			r.Get("/{id}", ingredients.HandleGetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth)

				r.Get("/", recipes.HandleListRecipes)
				r.Get("/{id}", recipes.HandleGetRecipe)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Post("/", recipes.HandleCreateRecipe)
				r.Get("/download_shopping_cart", recipes.HandleDownloadShoppingCart)
				r.Patch("/{id}", recipes.HandleUpdateRecipe)
				r.Delete("/{id}", recipes.HandleDeleteRecipe)
				r.Post("/{id}/favorite", recipes.HandleFavorite)
				r.Delete("/{id}/favorite", recipes.HandleUnfavorite)
				r.Post("/{id}/shopping_cart", recipes.HandleAddToCart)
				r.Delete("/{id}/shopping_cart", recipes.HandleRemoveFromCart)
			})
		})
	})
}

// Start godoc
//
//	@title						Foodgram API
//	@version					1.0
//	@description				API Server for the Foodgram application.
//
//	@securityDefinitions.apikey	AccessTokenCookie
//	@in							cookie
//	@name						access
//
//	@host						localhost:8080
//	@BasePath					/api
func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)
	addFiles(router, env)
	addDocs(router, fmt.Sprintf("0.0.0.0:%d", serverPort))
	http.Handle("/", router)

	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0:%d", serverPort))
	env.Logger.Info(fmt.Sprintf("Swagger UI available at http://0.0.0.0:%d/api/swagger/index.html", serverPort))
	return http.ListenAndServe(fmt.Sprintf(":%d", serverPort), nil)
}
