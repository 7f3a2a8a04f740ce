package cron

import (
	"Influence/internal/api/config"
	"Influence/internal/job"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobs(t *testing.T) {
	mgr := NewCronManager(config.JobsConfig{
		Materialize: "@every 10m",
		Ranking:     "0 0 * * * *",
	}, &job.PostMaterializeJob{}, &job.RankingRefreshJob{}, &job.CollectJob{})

	jobs, err := mgr.RegisterJobs()
	require.NoError(t, err)
	assert.Equal(t, []string{"materialize", "ranking"}, jobs)
	assert.Len(t, mgr.engine.Entries(), 2)
}

func TestRegisterJobsRejectsBadSpec(t *testing.T) {
	mgr := NewCronManager(config.JobsConfig{Collect: "every morning"}, nil, nil, &job.CollectJob{})

	_, err := mgr.RegisterJobs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collect")
}

func TestInitCronWithoutJobs(t *testing.T) {
	mgr := NewCronManager(config.JobsConfig{}, nil, nil, nil)

	require.NoError(t, InitCron(mgr))
	assert.Empty(t, mgr.engine.Entries())
}
