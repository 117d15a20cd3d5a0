package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/securegate/admin-portal/api/handlers"
	"github.com/securegate/admin-portal/api/middleware"
	"github.com/securegate/admin-portal/api/services"
	docs "github.com/securegate/admin-portal/docs"
	awsclient "github.com/securegate/admin-portal/internal/aws"
	"github.com/securegate/admin-portal/internal/permission"
	"github.com/securegate/admin-portal/models"
	"github.com/spf13/cobra"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Admin Portal Services API
// @version v1
// @description API for the HR, security and compliance management dashboard.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer portalDB.Close()

		// Audit events go to Pulsar when configured, to the database otherwise
		notifier, closeNotifier := newNotifier()
		defer closeNotifier()

		directory := &services.DirectoryService{DB: portalDB, Events: notifier}
		compliance := services.NewComplianceService(portalDB, notifier, initializeEmailClient(), appCfg)
		audit := &services.AuditService{DB: portalDB}

		guard := middleware.NewPermissionGuard(portalDB, portalDB, appCfg.Auth.RoleClaimPrefix)
		permissions := &services.PermissionService{Guard: guard}

		// Create routes
		r := mux.NewRouter()
		r.Handle("/health", middleware.WithLogger(handlers.Health(portalDB))).Methods(http.MethodGet)

		api := r.PathPrefix(appCfg.BasePath).Subrouter()

		// Apply the middleware to the API routes
		api.Use(middleware.WithLogger)
		api.Use(middleware.JWTMiddleware(appCfg.Auth.JWTSecret))

		// Every route is guarded by a menu permission
		route := func(tpl, method, menu string, action permission.Action, h http.HandlerFunc) {
			api.Handle(tpl, guard.RequirePermission(menu, action)(h)).Methods(method)
		}

		api.HandleFunc("/me/permissions", handlers.GetMyPermissions(permissions)).Methods(http.MethodGet)

		// User routes
		route("/users", http.MethodGet, models.MenuUsers, permission.Read, handlers.GetUsers(directory))
		route("/users", http.MethodPost, models.MenuUsers, permission.Create, handlers.CreateUser(directory))
		route("/users/{user-id}", http.MethodGet, models.MenuUsers, permission.Read, handlers.GetUser(directory))
		route("/users/{user-id}", http.MethodPut, models.MenuUsers, permission.Update, handlers.UpdateUser(directory))
		route("/users/{user-id}", http.MethodDelete, models.MenuUsers, permission.Delete, handlers.DeleteUser(directory))
		route("/users/{user-id}/roles", http.MethodPut, models.MenuUsers, permission.Update, handlers.SetUserRoles(directory))

		// Role routes
		route("/roles", http.MethodGet, models.MenuRoles, permission.Read, handlers.GetRoles(directory))
		route("/roles", http.MethodPost, models.MenuRoles, permission.Create, handlers.CreateRole(directory))
		route("/roles/{role-code}", http.MethodPut, models.MenuRoles, permission.Update, handlers.UpdateRole(directory))
		route("/roles/{role-code}", http.MethodDelete, models.MenuRoles, permission.Delete, handlers.DeleteRole(directory))
		route("/roles/{role-code}/permissions", http.MethodGet, models.MenuRoles, permission.Read, handlers.GetRolePermissions(directory))
		route("/roles/{role-code}/permissions", http.MethodPut, models.MenuRoles, permission.Update, handlers.SetRolePermissions(directory))
		route("/menus", http.MethodGet, models.MenuRoles, permission.Read, handlers.GetMenus(directory))

		// Department routes
		route("/departments", http.MethodGet, models.MenuDepartments, permission.Read, handlers.GetDepartments(directory))
		route("/departments", http.MethodPost, models.MenuDepartments, permission.Create, handlers.CreateDepartment(directory))
		route("/departments/{department-id}", http.MethodGet, models.MenuDepartments, permission.Read, handlers.GetDepartment(directory))
		route("/departments/{department-id}", http.MethodPut, models.MenuDepartments, permission.Update, handlers.UpdateDepartment(directory))
		route("/departments/{department-id}", http.MethodDelete, models.MenuDepartments, permission.Delete, handlers.DeleteDepartment(directory))

		// Checklist routes
		route("/checklists", http.MethodGet, models.MenuChecklists, permission.Read, handlers.GetChecklists(compliance))
		route("/checklists", http.MethodPost, models.MenuChecklists, permission.Create, handlers.CreateChecklist(compliance))
		route("/checklists/{checklist-id}", http.MethodGet, models.MenuChecklists, permission.Read, handlers.GetChecklist(compliance))
		route("/checklists/{checklist-id}", http.MethodPut, models.MenuChecklists, permission.Update, handlers.UpdateChecklist(compliance))
		route("/checklists/{checklist-id}", http.MethodDelete, models.MenuChecklists, permission.Delete, handlers.DeleteChecklist(compliance))
		route("/checklists/{checklist-id}/status", http.MethodPut, models.MenuChecklists, permission.Update, handlers.ToggleChecklistStatus(compliance))

		// Security education routes
		route("/educations", http.MethodGet, models.MenuEducation, permission.Read, handlers.GetEducations(compliance))
		route("/educations", http.MethodPost, models.MenuEducation, permission.Create, handlers.CreateEducation(compliance))
		route("/educations/{education-id}", http.MethodGet, models.MenuEducation, permission.Read, handlers.GetEducation(compliance))
		route("/educations/{education-id}", http.MethodPut, models.MenuEducation, permission.Update, handlers.UpdateEducation(compliance))
		route("/educations/{education-id}", http.MethodDelete, models.MenuEducation, permission.Delete, handlers.DeleteEducation(compliance))
		route("/educations/{education-id}/status", http.MethodPut, models.MenuEducation, permission.Update, handlers.ToggleEducationStatus(compliance))

		// Revision routes
		route("/revisions", http.MethodGet, models.MenuRevisions, permission.Read, handlers.GetRevisions(compliance))
		route("/revisions", http.MethodPost, models.MenuRevisions, permission.Create, handlers.CreateRevision(compliance))
		route("/revisions/{revision-id}", http.MethodDelete, models.MenuRevisions, permission.Delete, handlers.DeleteRevision(compliance))

		// Audit routes
		route("/audit-logs", http.MethodGet, models.MenuAuditLogs, permission.Read, handlers.GetAuditLogs(audit))

		// Docs
		docs.SwaggerInfo.Host = appCfg.Host
		docs.SwaggerInfo.BasePath = appCfg.BasePath
		r.PathPrefix(appCfg.DocsPath).Handler(httpSwagger.Handler(
			httpSwagger.URL(path.Join(appCfg.DocsPath, "/doc.json")),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("none"),
			httpSwagger.DomID("swagger-ui"),
		)).Methods(http.MethodGet)

		handler := gorillahandlers.CORS(
			gorillahandlers.AllowedOrigins(appCfg.CORS.AllowedOrigins),
			gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
			gorillahandlers.AllowedHeaders([]string{"Authorization", "Content-Type", "Accept-Language"}),
			gorillahandlers.ExposedHeaders([]string{"Location"}),
		)(r)
		handler = gorillahandlers.RecoveryHandler(gorillahandlers.PrintRecoveryStack(true))(handler)
		handler = gorillahandlers.CombinedLoggingHandler(os.Stdout, handler)

		server := &http.Server{
			Addr:              appCfg.Host,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("graceful shutdown failed")
			}
		}()

		log.Info().Str("addr", appCfg.Host).Msg("Server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("could not start server")
		}
		log.Info().Msg("Server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// initializeEmailClient returns an SES client when completion e-mails are configured
func initializeEmailClient() services.AWSEmailClient {
	if appCfg.Notifications.SenderEmail == "" || appCfg.Notifications.ComplianceEmail == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load AWS config, completion e-mails are disabled")
		return nil
	}
	return awsclient.NewSESClient(cfg)
}
