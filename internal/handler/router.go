package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/arsipkampus/arsip-akademik-api/internal/middleware"
	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	"github.com/arsipkampus/arsip-akademik-api/internal/repository"
	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	"github.com/arsipkampus/arsip-akademik-api/pkg/config"
	"github.com/arsipkampus/arsip-akademik-api/pkg/logger"
	corsmiddleware "github.com/arsipkampus/arsip-akademik-api/pkg/middleware/cors"
	reqidmiddleware "github.com/arsipkampus/arsip-akademik-api/pkg/middleware/requestid"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Role        *RoleHandler
	Division    *DivisionHandler
	Student     *StudentHandler
	Lecturer    *LecturerHandler
	Program     *ProgramHandler
	Region      *RegionHandler
	Reference   *ReferenceHandler
	Proposal    *ProposalHandler
	Supervision *SupervisionHandler
	Dashboard   *DashboardHandler
	Transfer    *TransferHandler
	Metrics     *MetricsHandler
}

// RouterDeps carries the cross-cutting collaborators routes need.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Auth     *service.AuthService
	Access   *service.AccessService
	Metrics  *service.MetricsService
	UserRepo *repository.UserRepository
}

// NewRouter assembles the gin engine with the full middleware chain and
// permission-guarded route groups.
func NewRouter(deps RouterDeps, h Handlers) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", h.Metrics.Prometheus)

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.Config.APIPrefix + "/v1")

	// Public routes. Signed file downloads authorize via the token itself.
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/students/register", h.Student.Register)
	api.GET("/files", h.Proposal.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.Auth))
	authed.Use(middleware.Principal(deps.Auth))

	authed.POST("/auth/logout", h.Auth.Logout)
	authed.POST("/auth/change-password", h.Auth.ChangePassword)
	authed.GET("/auth/me", h.Auth.Me)

	// Proposal ownership is enforced inside the service so both students and
	// reviewers share the same routes.
	authed.POST("/proposals", h.Proposal.Submit)
	authed.GET("/proposals", h.Proposal.List)
	authed.GET("/proposals/:id", h.Proposal.Get)
	authed.DELETE("/proposals/:id", h.Proposal.Delete)
	authed.POST("/proposals/:id/file", h.Proposal.Upload)
	authed.GET("/proposals/:id/file", h.Proposal.AttachmentURL)

	review := authed.Group("")
	review.Use(middleware.RequirePermission(deps.Access, models.PermManageProposals))
	review.POST("/proposals/:id/approve",
		middleware.Audit(deps.UserRepo, models.AuditActionApprove, "proposal"), h.Proposal.Approve)
	review.POST("/proposals/:id/reject",
		middleware.Audit(deps.UserRepo, models.AuditActionReject, "proposal"), h.Proposal.Reject)
	review.GET("/supervisions", h.Supervision.List)
	review.GET("/supervisions/:id", h.Supervision.Get)
	review.POST("/supervisions", h.Supervision.Assign)
	review.DELETE("/supervisions/:id", h.Supervision.Unassign)
	review.GET("/export/supervisions", h.Transfer.ExportSupervisions)
	review.GET("/dashboard", h.Dashboard.Overview)
	review.GET("/dashboard/system", h.Dashboard.System)

	users := authed.Group("")
	users.Use(middleware.RequirePermission(deps.Access, models.PermManageUsers))
	users.GET("/users", h.User.List)
	users.GET("/users/:id", h.User.Get)
	users.POST("/users", h.User.Create)
	users.PUT("/users/:id", h.User.Update)
	users.DELETE("/users/:id", h.User.Deactivate)

	roles := authed.Group("")
	roles.Use(middleware.RequirePermission(deps.Access, models.PermManageRoles))
	roles.GET("/roles", h.Role.List)
	roles.GET("/roles/:id", h.Role.Get)
	roles.POST("/roles", h.Role.Create)
	roles.PUT("/roles/:id", h.Role.Update)
	roles.DELETE("/roles/:id", h.Role.Delete)
	roles.GET("/permissions", h.Role.Permissions)
	roles.POST("/permissions/bootstrap", h.Role.Bootstrap)

	divisions := authed.Group("")
	divisions.Use(middleware.RequirePermission(deps.Access, models.PermManageDivisions))
	divisions.GET("/divisions", h.Division.List)
	divisions.GET("/divisions/:id", h.Division.Get)
	divisions.POST("/divisions", h.Division.Create)
	divisions.PUT("/divisions/:id", h.Division.Update)
	divisions.DELETE("/divisions/:id", h.Division.Delete)

	students := authed.Group("")
	students.Use(middleware.RequirePermission(deps.Access, models.PermCrudStudents))
	students.GET("/students", h.Student.List)
	students.GET("/students/:id", h.Student.Get)
	students.GET("/students/:id/title", h.Student.EffectiveTitle)
	students.POST("/students", h.Student.Create)
	students.PUT("/students/:id", h.Student.Update)
	students.DELETE("/students/:id", h.Student.Delete)
	students.POST("/import/students",
		middleware.Audit(deps.UserRepo, models.AuditActionImport, "student"), h.Transfer.ImportStudents)
	students.GET("/export/students", h.Transfer.ExportStudents)

	lecturers := authed.Group("")
	lecturers.Use(middleware.RequirePermission(deps.Access, models.PermCrudLecturers))
	lecturers.GET("/lecturers", h.Lecturer.List)
	lecturers.GET("/lecturers/:id", h.Lecturer.Get)
	lecturers.POST("/lecturers", h.Lecturer.Create)
	lecturers.PUT("/lecturers/:id", h.Lecturer.Update)
	lecturers.DELETE("/lecturers/:id", h.Lecturer.Delete)
	lecturers.POST("/import/lecturers",
		middleware.Audit(deps.UserRepo, models.AuditActionImport, "lecturer"), h.Transfer.ImportLecturers)

	programs := authed.Group("")
	programs.Use(middleware.RequirePermission(deps.Access, models.PermCrudPrograms))
	programs.GET("/programs", h.Program.List)
	programs.GET("/programs/:id", h.Program.Get)
	programs.POST("/programs", h.Program.Create)
	programs.PUT("/programs/:id", h.Program.Update)
	programs.DELETE("/programs/:id", h.Program.Delete)
	programs.POST("/import/programs",
		middleware.Audit(deps.UserRepo, models.AuditActionImport, "program"), h.Transfer.ImportPrograms)

	majors := authed.Group("")
	majors.Use(middleware.RequirePermission(deps.Access, models.PermCrudMajors))
	majors.GET("/concentrations", h.Program.ListConcentrations)
	majors.GET("/concentrations/:id", h.Program.GetConcentration)
	majors.POST("/concentrations", h.Program.CreateConcentration)
	majors.PUT("/concentrations/:id", h.Program.UpdateConcentration)
	majors.DELETE("/concentrations/:id", h.Program.DeleteConcentration)

	// Region reads are open to any signed-in user; writes are guarded.
	authed.GET("/regions", h.Region.List)
	authed.GET("/regions/:code", h.Region.Get)
	regions := authed.Group("")
	regions.Use(middleware.RequirePermission(deps.Access, models.PermCrudRegions))
	regions.POST("/regions", h.Region.Create)
	regions.PUT("/regions/:code", h.Region.Update)
	regions.DELETE("/regions/:code", h.Region.Delete)

	authed.GET("/religions", h.Reference.ListReligions)
	religions := authed.Group("")
	religions.Use(middleware.RequirePermission(deps.Access, models.PermCrudReligions))
	religions.POST("/religions", h.Reference.CreateReligion)
	religions.PUT("/religions/:id", h.Reference.UpdateReligion)
	religions.DELETE("/religions/:id", h.Reference.DeleteReligion)

	authed.GET("/education-levels", h.Reference.ListEducationLevels)
	authed.GET("/education-levels/:code", h.Reference.GetEducationLevel)
	educations := authed.Group("")
	educations.Use(middleware.RequirePermission(deps.Access, models.PermCrudEducations))
	educations.POST("/education-levels", h.Reference.CreateEducationLevel)
	educations.PUT("/education-levels/:code", h.Reference.UpdateEducationLevel)
	educations.DELETE("/education-levels/:code", h.Reference.DeleteEducationLevel)

	return r
}
