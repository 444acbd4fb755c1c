package api

import (
	"quizcraft/internal/api/handlers"
	"quizcraft/internal/auth"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(router *gin.Engine, handler *handlers.Handler, verifier auth.Verifier) {
	router.Use(CORSMiddleware())

	// Public: share-token access needs no identity.
	router.GET("/api/quizzes/shared/:token", handler.HandleGetSharedQuiz)

	// Everything else sits behind the single auth gate.
	authorized := router.Group("/api")
	authorized.Use(AuthRequired(verifier))
	{
		authorized.POST("/generate-quiz", handler.HandleGenerateQuiz)
		authorized.POST("/parse-pdf", handler.HandleParsePDF)
		authorized.POST("/upload", handler.HandleUpload)

		authorized.GET("/quizzes", handler.HandleListQuizzes)
		authorized.GET("/quizzes/:quizId", handler.HandleGetQuiz)
		authorized.PUT("/quizzes/:quizId", handler.HandleUpdateQuiz)
		authorized.DELETE("/quizzes/:quizId", handler.HandleDeleteQuiz)
		authorized.POST("/quizzes/:quizId/share", handler.HandleShareQuiz)
		authorized.GET("/quizzes/:quizId/export", handler.HandleExportQuiz)

		authorized.GET("/notes", handler.HandleListNotes)
		authorized.POST("/notes", handler.HandleCreateNote)
		authorized.PUT("/notes", handler.HandleUpdateNote)
		authorized.DELETE("/notes", handler.HandleDeleteNote)

		authorized.GET("/usage", handler.HandleGetUsage)
	}
}
