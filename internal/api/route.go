package api

import (
	"Influence/internal/api/config"
	"Influence/internal/api/middleware"
	"Influence/internal/pkg/logger"
	"Influence/internal/pkg/ranking"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, serverCfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(serverCfg.AllowOrigins))
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		entityGroup := apiGroup.Group("/entities")
		{
			entityGroup.GET("", group.EntityHandler.ListEntities)
			entityGroup.GET("/search", group.EntityHandler.SearchEntities)
			entityGroup.GET("/:entity_id", group.EntityHandler.GetEntity)
			entityGroup.GET("/:entity_id/profile", group.EntityHandler.GetProfileCard)

			entityGroup.GET("/:entity_id/interactions", group.InteractionHandler.GetInteractionStats)
			entityGroup.GET("/:entity_id/scores", group.InteractionHandler.GetScoreSummary)
			entityGroup.GET("/:entity_id/top-posts", group.InteractionHandler.GetTopPosts)
			entityGroup.GET("/:entity_id/recent-posts", group.InteractionHandler.GetRecentPosts)
			entityGroup.GET("/:entity_id/posts", group.PostHandler.GetPostsByEntity)

			entityGroup.GET("/:entity_id/followers", group.FollowerHandler.GetFollowersHistory)
			entityGroup.GET("/:entity_id/followers/comparison", group.FollowerHandler.GetFollowersComparison)
			entityGroup.GET("/:entity_id/followers/series", group.FollowerHandler.GetFollowersSeries)

			// 需要登录 & 拥有 admin 角色
			adminGroup := entityGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(ranking.RoleAdmin))
			{
				adminGroup.POST("", group.EntityHandler.AddEntity)
				adminGroup.DELETE("/:entity_id", group.EntityHandler.DeleteEntity)
			}
		}

		followerGroup := apiGroup.Group("/followers")
		{
			followerGroup.POST("/compare", group.FollowerHandler.CompareEntities)
		}

		categoryGroup := apiGroup.Group("/categories")
		{
			categoryGroup.GET("", group.CategoryHandler.ListCategories)

			adminGroup := categoryGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(ranking.RoleAdmin))
			{
				adminGroup.POST("", group.CategoryHandler.AddCategory)
				adminGroup.DELETE("/:category_id", group.CategoryHandler.DeleteCategory)
				adminGroup.POST("/link", group.CategoryHandler.LinkEntity)
			}
		}

		pageGroup := apiGroup.Group("/pages")
		{
			pageGroup.GET("", group.PageHandler.ListPages)

			adminGroup := pageGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(ranking.RoleAdmin))
			{
				adminGroup.POST("", group.PageHandler.AddPage)
				adminGroup.DELETE("/:page_id", group.PageHandler.DeletePage)
			}
		}

		rankingGroup := apiGroup.Group("/ranking")
		{
			// 排名的可见范围取决于角色，未登录也可访问
			authOptGroup := rankingGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.RankingHandler.GetRanking)
				authOptGroup.GET("/roots", group.RankingHandler.GetRootCategoryRanking)
			}

			rankingGroup.GET("/leaderboard", group.RankingHandler.GetLeaderboard)
			rankingGroup.GET("/categories/:category_id", group.RankingHandler.GetCategoryRanking)
			rankingGroup.POST("/competitors", group.RankingHandler.GetCompetitorRanking)

			adminGroup := rankingGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(ranking.RoleAdmin))
			{
				adminGroup.POST("/refresh", group.RankingHandler.RefreshRanking)
				adminGroup.POST("/export", group.RankingHandler.ExportRanking)
				adminGroup.GET("/export", group.RankingHandler.GetExportedRanking)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("", group.PostHandler.GetPostsByPlatform)
			postGroup.GET("/history", group.PostHandler.GetPostHistory)
			postGroup.GET("/detail/:post_id", group.PostHandler.GetPost)
		}

		noteGroup := apiGroup.Group("/notes")
		{
			authOptGroup := noteGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.NoteHandler.ListForTarget)
				authOptGroup.GET("/detail/:note_id", group.NoteHandler.GetNote)
			}

			authGroup := noteGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.NoteHandler.CreateNote)
				authGroup.GET("/self", group.NoteHandler.ListMine)
				authGroup.PUT("/:note_id", group.NoteHandler.UpdateNote)
				authGroup.POST("/:note_id/archive", group.NoteHandler.ArchiveNote)
				authGroup.DELETE("/:note_id", group.NoteHandler.DeleteNote)
			}
		}

		collectionGroup := apiGroup.Group("/collection")
		collectionGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(ranking.RoleAdmin))
		{
			collectionGroup.GET("/platforms", group.CollectionHandler.ListPlatforms)
			collectionGroup.GET("/runs", group.CollectionHandler.ListRuns)
			collectionGroup.POST("/runs", group.CollectionHandler.Collect)
		}
	}

	return r
}
