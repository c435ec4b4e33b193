package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vihcare/vihcare/internal/config"
	"github.com/vihcare/vihcare/internal/domain"
	"github.com/vihcare/vihcare/pkg/auth"
	"github.com/vihcare/vihcare/pkg/metrics"
)

type RouterDeps struct {
	Config     *config.Config
	Log        *zap.Logger
	Collector  *metrics.Collector
	JWTManager *auth.JWTManager

	AuthHandler    *AuthHandler
	PatientHandler *PatientHandler
	StaffHandler   *StaffHandler
	StatsHandler   *StatsHandler
}

// NewRouter wires the full HTTP surface.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Log))
	r.Use(Metrics(deps.Collector))
	r.Use(CORS(deps.Config.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": deps.Config.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", deps.AuthHandler.Login)
		authGroup.POST("/refresh", deps.AuthHandler.Refresh)
		authGroup.POST("/password", Authenticated(deps.JWTManager), deps.AuthHandler.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(Authenticated(deps.JWTManager))

	patients := protected.Group("/patients")
	{
		patients.POST("", deps.PatientHandler.Create)
		patients.GET("", deps.PatientHandler.List)
		patients.GET("/:id", deps.PatientHandler.Get)

		patients.PUT("/:id/identificacion", deps.PatientHandler.UpdateIdentificacion)
		patients.PUT("/:id/triaje", deps.PatientHandler.UpdateTriage)
		patients.PUT("/:id/historia-primera", deps.PatientHandler.UpdateHistoriaPrimera)
		patients.PUT("/:id/estudios", deps.PatientHandler.UpdateEstudios)
		patients.PUT("/:id/ficha-tratamiento", deps.PatientHandler.SetFichaTratamiento)
		patients.PUT("/:id/embarazada", deps.PatientHandler.SetEmbarazada)
		patients.PUT("/:id/tipo-consulta", deps.PatientHandler.SetTipoConsulta)

		patients.POST("/:id/historias-sucesivas", deps.PatientHandler.AppendSucesiva)
		patients.POST("/:id/cambios-tar", deps.PatientHandler.AppendTARChange)
		patients.POST("/:id/notas-tratamiento", deps.PatientHandler.AppendTratamientoNota)
	}

	staffGroup := protected.Group("/staff")
	{
		staffGroup.GET("", deps.StaffHandler.List)
		staffGroup.POST("", RequireRole(domain.RoleAdmin, domain.RoleMedico), deps.StaffHandler.Add)
	}

	protected.GET("/estadisticas", deps.StatsHandler.Report)

	return r
}
