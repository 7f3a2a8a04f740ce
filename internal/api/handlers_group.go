package api

import "Influence/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	EntityHandler      *handler.EntityHandler
	CategoryHandler    *handler.CategoryHandler
	PageHandler        *handler.PageHandler
	InteractionHandler *handler.InteractionHandler
	FollowerHandler    *handler.FollowerHandler
	RankingHandler     *handler.RankingHandler
	PostHandler        *handler.PostHandler
	NoteHandler        *handler.NoteHandler
	CollectionHandler  *handler.CollectionHandler
}
