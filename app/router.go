// Package app wires the HTTP surface together: routes, middleware and
// dependency construction
package app

import (
	"fmt"
	"time"

	"localpix/gallery-api/app/media"
	"localpix/gallery-api/app/prefs"
	"localpix/gallery-api/app/root"
	"localpix/gallery-api/app/user"
	"localpix/gallery-api/db"
	"localpix/gallery-api/internal"
	"localpix/gallery-api/internal/account"
	"localpix/gallery-api/internal/catalog"
	"localpix/gallery-api/internal/service"
	"localpix/gallery-api/internal/store"
	"localpix/gallery-api/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var cacheStore = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}

	d.DB = conn
	d.Store = store.New(conn)
	d.Directory = account.NewDirectory(d.Store)
	d.Catalog = catalog.NewManager(d.Store)
	d.Tagger = service.NewTagger()
	d.Ingestor = service.NewIngestor(d.Catalog, d.Tagger)

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("username"); v != "" {
					fields = append(fields, zap.String("username", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 8 << 20

	session := middleware.NewSessionMiddleware(d.Directory)
	maxUploadSize := viper.GetInt64("upload.max_size")

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// HEAD /api/validate		-> Validates a session token
		m.HEAD("/validate", session, root.Validate)
	}

	u := m.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/users 		-> Registers a new user
		u.POST("", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login 	-> Logs in a user and sets the session cookie
		u.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/users/logout 	-> Clears the session
		u.POST("/logout", session, func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /api/users		-> Returns the session identity and catalog stats
		u.GET("", session, func(c *gin.Context) { user.UserFetch(c, d) })
	}

	md := m.Group("/media", session)
	{
		// GET /api/media		-> Returns the filtered catalog projection
		md.GET("", func(c *gin.Context) { media.MediaList(c, d) })

		// GET /api/media/categories	-> Returns the derived category set
		md.GET("/categories", func(c *gin.Context) { media.MediaCategories(c, d) })

		// POST /api/media         	-> Uploads a batch of files
		md.POST("", middleware.BodySizeLimiter(maxUploadSize*8), func(c *gin.Context) { media.MediaUpload(c, d) })

		// GET /api/media/:id/raw	-> Serves the decoded asset bytes
		md.GET("/:id/raw", cacheFor(60), func(c *gin.Context) { media.MediaServe(c, d) })

		// PATCH /api/media/:id		-> Edits name/category/tags of a record
		md.PATCH("/:id", func(c *gin.Context) { media.MediaEdit(c, d) })

		// DELETE /api/media/:id	-> Deletes a record
		md.DELETE("/:id", func(c *gin.Context) { media.MediaDelete(c, d) })

		// POST /api/media/:id/view	-> Bumps a record's view count
		md.POST("/:id/view", func(c *gin.Context) { media.MediaView(c, d) })

		// GET /api/media/backup	-> Downloads the catalog as JSON
		md.GET("/backup", func(c *gin.Context) { media.MediaBackup(c, d) })

		// POST /api/media/restore	-> Replaces the catalog with an uploaded backup
		md.POST("/restore", middleware.BodySizeLimiter(maxUploadSize*8), func(c *gin.Context) { media.MediaRestore(c, d) })
	}

	p := m.Group("/prefs", session)
	{
		// GET /api/prefs		-> Returns view mode and theme
		p.GET("", func(c *gin.Context) { prefs.PrefsFetch(c, d) })

		// PUT /api/prefs		-> Updates view mode and/or theme
		p.PUT("", func(c *gin.Context) { prefs.PrefsUpdate(c, d) })
	}

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// cacheFor caches responses per user, not just per URI, so one user's
// cached bytes are never served to another session
func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec),
		cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
			return true, cache.Strategy{
				CacheKey: c.GetString("username") + ":" + c.Request.RequestURI,
			}
		}),
	)
}
