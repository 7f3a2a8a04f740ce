package cron

import (
	"Influence/internal/api/config"
	"Influence/internal/job"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine         *cron.Cron
	specs          config.JobsConfig
	materializeJob *job.PostMaterializeJob
	rankingJob     *job.RankingRefreshJob
	collectJob     *job.CollectJob
}

func NewCronManager(
	specs config.JobsConfig,
	materializeJob *job.PostMaterializeJob,
	rankingJob *job.RankingRefreshJob,
	collectJob *job.CollectJob,
) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		specs:          specs,
		materializeJob: materializeJob,
		rankingJob:     rankingJob,
		collectJob:     collectJob,
	}
}

// RegisterJobs 注册定时任务，表达式为空的任务不启用，返回已注册的任务名
func (s *Manager) RegisterJobs() ([]string, error) {
	jobs := []struct {
		name string
		spec string
		job  cron.Job
	}{
		{"materialize", s.specs.Materialize, s.materializeJob},
		{"ranking", s.specs.Ranking, s.rankingJob},
		{"collect", s.specs.Collect, s.collectJob},
	}
	var registered []string
	for _, j := range jobs {
		if j.spec == "" {
			log.Warn("cron job disabled", "job", j.name)
			continue
		}
		if _, err := s.engine.AddJob(j.spec, cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(j.job)); err != nil {
			return nil, fmt.Errorf("register %s job with spec %q: %w", j.name, j.spec, err)
		}
		log.Info("cron job registered", "job", j.name, "spec", j.spec)
		registered = append(registered, j.name)
	}
	return registered, nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
