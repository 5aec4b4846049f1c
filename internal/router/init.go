package router

import (
	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/internal/container"
	pginfra "github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/router/modules"
)

// InitModules constructs every feature module from the container singletons
// and registers it with the router registry. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	log := container.GetLogger()
	pool := container.GetPGPool()
	gen := container.GetGenerator()
	jwt := container.GetJWT()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	echoes := pginfra.NewEchoRepository(pool)
	activities := pginfra.NewActivityRepository(pool)
	fusions := pginfra.NewFusionRepository(pool)
	affirmations := pginfra.NewAffirmationRepository(pool)

	analyzer := application.NewEchoAnalyzer(echoes, profiles, gen, container.GetES(), cfg.ESEchoesIndex, log)

	userSvc := application.NewUserService(users, profiles, container.GetRedis(), jwt, log)
	echoSvc := application.NewEchoService(
		echoes,
		analyzer,
		container.GetRabbitPub(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESEchoesIndex,
		log,
	)
	activitySvc := application.NewActivityService(activities, profiles, log)
	insightSvc := application.NewInsightService(echoes, activities, log)
	whispererSvc := application.NewWhispererService(echoes, profiles, gen, log)
	patternsSvc := application.NewPatternsService(insightSvc, profiles, gen, log)
	alchemySvc := application.NewAlchemyService(echoes, fusions, gen, log)
	simulateSvc := application.NewSimulateService(echoes, activities, profiles, gen, log)
	soundscapeSvc := application.NewSoundscapeService(echoes, gen, log)
	weaveSvc := application.NewWeaveService(echoes, affirmations, gen, log)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, log, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewEchoModule(handlers.NewEchoHandler(echoSvc, log), jwt))
	r.Add(modules.NewActivityModule(handlers.NewActivityHandler(activitySvc, log), jwt))
	r.Add(modules.NewInsightModule(handlers.NewInsightHandler(insightSvc, log), jwt))
	r.Add(modules.NewWhispererModule(handlers.NewWhispererHandler(whispererSvc, log), jwt))
	r.Add(modules.NewPatternsModule(handlers.NewPatternsHandler(patternsSvc, log), jwt))
	r.Add(modules.NewAlchemyModule(handlers.NewAlchemyHandler(alchemySvc, log), jwt))
	r.Add(modules.NewSimulateModule(handlers.NewSimulateHandler(simulateSvc, log), jwt))
	r.Add(modules.NewSoundscapeModule(handlers.NewSoundscapeHandler(soundscapeSvc, log), jwt))
	r.Add(modules.NewWeaveModule(handlers.NewWeaveHandler(weaveSvc, log), jwt))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
