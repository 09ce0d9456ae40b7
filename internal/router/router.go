package router

import (
	"Orbit_Social/internal/config"
	"Orbit_Social/internal/handler"
	"Orbit_Social/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(cfg.SMTP)
	email := handler.NewEmailHandler(cfg.SMTP)
	follow := handler.NewFollowHandler()
	community := handler.NewCommunityHandler()
	post := handler.NewPostHandler()
	comment := handler.NewCommentHandler()
	message := handler.NewMessageHandler()

	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
		userGroup.GET("/:id", user.GetProfile)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.GET("/me", user.Me)
		authGroup.PATCH("/me", user.UpdateProfile)
		authGroup.DELETE("/me", user.DeleteAccount)
	}

	followGroup := r.Group("/api/follow")
	followGroup.Use(middleware.AuthMiddleware())
	{
		followGroup.POST("/", follow.Follow)
		followGroup.POST("/accept", follow.Accept)
		followGroup.POST("/reject", follow.Reject)
		followGroup.DELETE("/:id", follow.Unfollow)
		followGroup.GET("/relation", follow.Relation)
		followGroup.GET("/followings", follow.ListFollowings)
		followGroup.GET("/followers", follow.ListFollowers)
		followGroup.GET("/requests/incoming", follow.PendingIncoming)
		followGroup.GET("/requests/outgoing", follow.PendingOutgoing)
	}

	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/search", community.Search)
		communityGroup.GET("/:id", community.Get)
		communityGroup.PATCH("/:id", community.Update)
		communityGroup.DELETE("/:id", community.Delete)
		communityGroup.POST("/:id/join", community.Join)
		communityGroup.POST("/:id/leave", community.Leave)
		communityGroup.POST("/:id/members", community.AddMember)
		communityGroup.GET("/:id/members", community.Members)
		communityGroup.DELETE("/:id/members/:user_id", community.RemoveMember)
		communityGroup.PUT("/:id/members/role", community.SetRole)
		communityGroup.GET("/:id/stats", community.Stats)
	}

	postGroup := r.Group("/api/post")
	postGroup.Use(middleware.AuthMiddleware())
	{
		postGroup.POST("/create", post.CreatePost)
		postGroup.GET("/:id", post.GetPost)
		postGroup.DELETE("/:id", post.DeletePost)
		postGroup.GET("/list/:id", post.ListByCommunity)
	}

	commentGroup := r.Group("/api/comment")
	commentGroup.Use(middleware.AuthMiddleware())
	{
		commentGroup.POST("/create", comment.CreateComment)
		commentGroup.GET("/list/:id", comment.ListByPost)
		commentGroup.DELETE("/:id", comment.DeleteComment)
	}

	messageGroup := r.Group("/api/message")
	messageGroup.Use(middleware.AuthMiddleware())
	{
		messageGroup.POST("/send", message.Send)
		messageGroup.GET("/conversation/:id", message.Conversation)
		messageGroup.POST("/conversation/:id/read", message.MarkRead)
		messageGroup.GET("/unread", message.UnreadCount)
	}

	return r
}
