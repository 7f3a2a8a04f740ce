package cron

import log "log/slog"

// InitCron 注册物化、排名刷新与采集任务并启动引擎，一个任务都没有启用时不启动
func InitCron(mgr *Manager) error {
	jobs, err := mgr.RegisterJobs()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		log.Warn("no cron job enabled, check jobs.materialize, jobs.ranking and jobs.collect")
		return nil
	}
	log.Info("cron jobs starting", "jobs", jobs)
	mgr.Start()
	return nil
}
