package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"quotemanagement/collections"
	"quotemanagement/handlers"
	"quotemanagement/services"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Login and the import template are the only unauthenticated routes.
		se.Router.POST("/api/auth/login", handlers.HandleLogin(app))
		se.Router.GET("/api/products/import/template", handlers.HandleProductImportTemplate())

		api := se.Router.Group("/api")
		api.BindFunc(handlers.RequireAuth(app))

		// ── Customers ────────────────────────────────────────────
		api.GET("/customers", handlers.HandleCustomerList(app))
		api.GET("/customers/{id}", handlers.HandleCustomerGet(app))
		api.POST("/customers", handlers.HandleCustomerCreate(app))
		api.PUT("/customers/{id}", handlers.HandleCustomerUpdate(app))
		api.DELETE("/customers/{id}", handlers.HandleCustomerDelete(app))
		api.POST("/customers/{id}/restore", handlers.HandleCustomerRestore(app))
		api.POST("/customers/{id}/archive", handlers.HandleCustomerArchive(app, true))
		api.POST("/customers/{id}/unarchive", handlers.HandleCustomerArchive(app, false))

		// ── Products ─────────────────────────────────────────────
		api.GET("/products", handlers.HandleProductList(app))
		api.GET("/products/{id}", handlers.HandleProductGet(app))
		api.POST("/products", handlers.HandleProductCreate(app))
		api.PUT("/products/{id}", handlers.HandleProductUpdate(app))
		api.DELETE("/products/{id}", handlers.HandleProductDelete(app))
		api.POST("/products/{id}/restore", handlers.HandleProductRestore(app))
		api.POST("/products/{id}/archive", handlers.HandleProductArchive(app, true))
		api.POST("/products/{id}/unarchive", handlers.HandleProductArchive(app, false))

		// ── Product import ───────────────────────────────────────
		api.POST("/products/import", handlers.HandleProductImport(app))
		api.POST("/products/import/errors", handlers.HandleProductImportErrorReport())

		// ── Quotes ───────────────────────────────────────────────
		// Export before {id} so "export" is not matched as an ID.
		api.GET("/quotes/export", handlers.HandleQuoteRegisterExport(app))
		api.GET("/quotes", handlers.HandleQuoteList(app))
		api.POST("/quotes", handlers.HandleQuoteCreate(app))
		api.GET("/quotes/{id}", handlers.HandleQuoteView(app))
		api.PUT("/quotes/{id}", handlers.HandleQuoteUpdate(app))
		api.POST("/quotes/{id}/status", handlers.HandleQuoteTransition(app))
		api.DELETE("/quotes/{id}", handlers.HandleQuoteDelete(app))
		api.POST("/quotes/{id}/restore", handlers.HandleQuoteRestore(app))
		api.POST("/quotes/{id}/archive", handlers.HandleQuoteArchive(app, true))
		api.POST("/quotes/{id}/unarchive", handlers.HandleQuoteArchive(app, false))
		api.GET("/quotes/{id}/pdf", handlers.HandleQuotePDF(app))
		api.POST("/quotes/{id}/email", handlers.HandleQuoteEmail(app))

		// ── Users ────────────────────────────────────────────────
		api.GET("/users", handlers.HandleUserList(app))
		api.GET("/users/{id}", handlers.HandleUserGet(app))
		api.POST("/users", handlers.HandleUserCreate(app))
		api.PUT("/users/{id}", handlers.HandleUserUpdate(app))
		api.DELETE("/users/{id}", handlers.HandleUserDelete(app))
		api.POST("/users/{id}/restore", handlers.HandleUserRestore(app))

		// ── Settings ─────────────────────────────────────────────
		api.GET("/settings", handlers.HandleSettingsGet(app))
		api.PUT("/settings", handlers.HandleSettingsUpdate(app))
		api.GET("/settings/email/status", handlers.HandleEmailConfigStatus(app))
		api.POST("/settings/email/test", handlers.HandleTestEmail(app))

		return se.Next()
	})

	app.RootCmd.AddCommand(importProductsCmd(app))

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// importProductsCmd imports a product CSV from the command line, sharing the
// exact validation and upsert path the upload endpoint uses.
func importProductsCmd(app *pocketbase.PocketBase) *cobra.Command {
	return &cobra.Command{
		Use:   "import-products [file]",
		Short: "Import products from a CSV file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.Bootstrap(); err != nil {
				log.Fatalf("Failed to bootstrap: %v", err)
			}
			collections.Setup(app)

			file, err := os.Open(args[0])
			if err != nil {
				log.Fatalf("Failed to open %s: %v", args[0], err)
			}
			defer file.Close()

			rows, rowErrors, err := services.ParseProductCSV(file)
			if err != nil {
				log.Fatalf("Failed to parse %s: %v", args[0], err)
			}

			result, err := services.ImportProducts(app, rows, rowErrors)
			if err != nil {
				log.Fatalf("Import failed: %v", err)
			}

			fmt.Printf("Imported %d rows: %d created, %d updated, %d failed\n",
				result.TotalRows, result.Created, result.Updated, result.Failed)
			for _, e := range result.Errors {
				fmt.Printf("  row %d, %s: %s\n", e.Row, e.Field, e.Message)
			}
		},
	}
}
