package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mutanteweb/backend/chatbot"
	"mutanteweb/backend/config"
	"mutanteweb/backend/controllers"
	"mutanteweb/backend/database"
	"mutanteweb/backend/middlewares"
)

func Register(r *gin.Engine, cfg config.Config, store *database.Store, log *zap.Logger) {
	onb := controllers.NewOnboarding(store, cfg.CallTimeout)
	chat := controllers.NewChat(store, chatbot.NewResponder(), cfg.BotTypingDelay, log)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", controllers.Register(cfg, store))
		auth.POST("/login", controllers.Login(cfg, store))

		// Onboarding modal: one machine per visitor, session carried by cookie.
		ob := api.Group("/onboarding")
		ob.POST("/open", onb.Open())
		ob.POST("/close", onb.Close())
		ob.GET("/state", onb.State())
		ob.POST("/login", onb.Login())
		ob.POST("/register", onb.Register())
		ob.POST("/show-register", onb.ShowRegister())
		ob.POST("/show-login", onb.ShowLogin())
		ob.POST("/step/basics", onb.SubmitBasics())
		ob.POST("/step/operations", onb.SubmitOperations())
		ob.POST("/step/digital", onb.SubmitDigital())
		ob.POST("/step/confirm", onb.Confirm())
		ob.POST("/back", onb.Back())
		ob.POST("/days/toggle", onb.ToggleDay())
		ob.POST("/logout", onb.Logout())

		// Analyst bot and marketing content are public.
		api.POST("/chat/send", chat.Send())
		api.GET("/chat/messages", chat.Messages())
		api.GET("/content/plans", controllers.Plans())
		api.GET("/content/testimonials", controllers.Testimonials())
		api.POST("/contact", controllers.Contact(store))
		api.POST("/newsletter", controllers.Newsletter(store))

		consent := api.Group("/consent")
		consent.GET("", controllers.GetConsent(store))
		consent.POST("", controllers.SaveCustomConsent(store))
		consent.POST("/accept-all", controllers.AcceptAllConsent(store))
		consent.POST("/necessary", controllers.NecessaryConsent(store))

		priv := api.Group("/")
		priv.Use(middlewares.Auth(cfg.JWTSecret))
		priv.GET("me", controllers.Me(store))
		priv.GET("businesses", controllers.ListBusinesses(store))
		priv.GET("business/:id/analytics", controllers.BusinessAnalyticsHandler(store))
		priv.GET("business/:id/chat", chat.History())
	}
}
