package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kurslyhq/kursly/app/controllers"
	"github.com/kurslyhq/kursly/app/repository"
	"github.com/kurslyhq/kursly/internal/pkg/cache"
	"github.com/kurslyhq/kursly/internal/pkg/database"
	"github.com/kurslyhq/kursly/internal/pkg/docstore"
	"github.com/kurslyhq/kursly/internal/pkg/env"
	"github.com/kurslyhq/kursly/internal/pkg/invoicepdf"
	"github.com/kurslyhq/kursly/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.SetGlobalFactory(repository.NewFactory(database.GetDB()))

	app := fiber.New(fiber.Config{
		AppName: "kursly",
	})
	app.Use(recover.New(), logger.New())

	store, local := newDocumentStore()
	controllers.InitializeInvoiceController(invoicepdf.NewPDFRenderer(), store)
	if local {
		// Serve locally stored invoice documents in dev setups.
		app.Static(env.GetEnv("DOCUMENT_BASE_URL", "/documents"), env.GetEnv("DOCUMENT_DIR", "./data/documents"))
	}

	router.InstallRouter(app)

	return app
}

// newDocumentStore picks S3 when configured, the local filesystem
// otherwise (dev setups without object storage). The second return
// value reports whether the local store was chosen.
func newDocumentStore() (docstore.Store, bool) {
	if cfg, err := docstore.LoadS3Config(); err == nil {
		store, err := docstore.NewS3Store(cfg)
		if err == nil {
			return store, false
		}
		log.Printf("document store: S3 init failed, falling back to local: %v", err)
	}

	dir := env.GetEnv("DOCUMENT_DIR", "./data/documents")
	baseURL := env.GetEnv("DOCUMENT_BASE_URL", "/documents")
	return docstore.NewLocalStore(dir, baseURL), true
}
