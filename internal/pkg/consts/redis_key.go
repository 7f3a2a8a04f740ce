package consts

const (
	PageHistoryDirtyKey      = "page:history:dirty"
	PageHistoryProcessingKey = "page:history:dirty:processing"
	EntityInteractionKey     = "entity:interactions:"
	EntityProfileKey         = "entity:profile:"
	RankingCacheKey          = "ranking:followers:cache"
	RankingBoardKey          = "ranking:followers"
	RankingExportedKey       = "ranking:exported:"
)

const (
	MaterializeLock    = "lock:materialize"
	RankingRefreshLock = "lock:ranking:refresh"
	CollectLock        = "lock:collect:"
)
