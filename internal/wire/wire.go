package wire

import (
	"Influence/internal/api"
	"Influence/internal/api/config"
	"Influence/internal/api/handler"
	"Influence/internal/job"
	"Influence/internal/pkg/collector"
	"Influence/internal/pkg/cron"
	"Influence/internal/pkg/es"
	"Influence/internal/pkg/kafka"
	"Influence/internal/pkg/minio"
	mongoRepo "Influence/internal/pkg/mongo"
	"Influence/internal/pkg/redis"
	"Influence/internal/repository"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	entityRepo := repository.NewEntityRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	pageRepo := repository.NewPageRepo(db)
	historyRepo := repository.NewPageHistoryRepo(db)
	postRepo := repository.NewPostRepo(db)
	runRepo := repository.NewCollectionRunRepo(db)
	entityESRepo := es.NewEntityRepo(es.Client)
	noteRepo := mongoRepo.NewNoteRepo(mongoDB)

	cache := redis.NewCache()
	archive := minio.NewArchive(minio.Client, minio.ArchiveBucket)
	collectorClient := collector.NewClient(cfg.Collector)

	entityService := service.NewEntityService(entityRepo, categoryRepo, historyRepo, entityESRepo, cache, cfg.Ranking.CacheTTL)
	categoryService := service.NewCategoryService(categoryRepo, entityRepo, cache)
	pageService := service.NewPageService(pageRepo, entityRepo, entityESRepo, cache)
	interactionService := service.NewInteractionService(entityRepo, pageRepo, historyRepo, cache, cfg.Ranking.CacheTTL)
	followerService := service.NewFollowerService(entityRepo, categoryRepo, historyRepo)
	rankingService := service.NewRankingService(categoryRepo, historyRepo, cache, archive, cfg.Ranking.PublicTopN, cfg.Ranking.CacheTTL)
	postService := service.NewPostService(postRepo, pageRepo, entityRepo, historyRepo)
	noteService := service.NewNoteService(noteRepo, postRepo, entityRepo)
	collectionService := service.NewCollectionService(collectorClient, pageRepo, historyRepo, runRepo, cache, archive)

	handlers := &api.HandlersGroup{
		EntityHandler:      handler.NewEntityHandler(entityService),
		CategoryHandler:    handler.NewCategoryHandler(categoryService),
		PageHandler:        handler.NewPageHandler(pageService),
		InteractionHandler: handler.NewInteractionHandler(interactionService),
		FollowerHandler:    handler.NewFollowerHandler(followerService),
		RankingHandler:     handler.NewRankingHandler(rankingService),
		PostHandler:        handler.NewPostHandler(postService),
		NoteHandler:        handler.NewNoteHandler(noteService),
		CollectionHandler:  handler.NewCollectionHandler(collectionService),
	}

	router := api.SetupRouter(handlers, cfg.Server)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, pageRepo, interactionService)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		cfg.Jobs,
		job.NewPostMaterializeJob(postService, interactionService),
		job.NewRankingRefreshJob(rankingService),
		job.NewCollectJob(collectionService),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
